package demoserver

import "fmt"

// PageVersion is one revision of a page.
type PageVersion struct {
	HTML string
	// Notes lists what this revision gets wrong or fixes, for the control
	// panel.
	Notes []string
}

// PageDefinition holds all versions of a single page.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]PageVersion
}

const (
	// VersionDefective is the revision with deliberate accessibility defects.
	VersionDefective = 1
	// VersionRemediated is the fixed revision.
	VersionRemediated = 2
)

// GetAllPages returns all demo page definitions.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		getHomePage(),
		getProjectsPage(),
		getContactPage(),
		getResumePage(),
	}
}

// v1 styling: low contrast body copy and suppressed focus rings.
const defectiveCSS = `
body { font-family: Georgia, serif; color: #aaaaaa; background-color: #ffffff; margin: 0; }
header { background-color: #f4f4f4; padding: 16px; }
nav a { color: #b0b0b0; margin-right: 12px; }
a:focus, button:focus, input:focus, textarea:focus { outline: none; }
.tagline { color: #cccccc; }
.icon-btn { width: 24px; height: 24px; }
footer { background-color: #333333; color: #555555; padding: 16px; }
`

// v2 styling: every pair clears 7:1 and focus is always visible.
const remediatedCSS = `
body { font-family: Georgia, serif; color: #1a1a1a; background-color: #ffffff; margin: 0; }
header { background-color: #ffffff; padding: 16px; }
a { color: #0645ad; }
nav a { margin-right: 12px; }
a:focus-visible, button:focus-visible, input:focus-visible, textarea:focus-visible { outline: 3px solid #0645ad; outline-offset: 2px; }
.tagline { color: #4a4a4a; }
.primary { background-color: #0645ad; color: #ffffff; border: 0; padding: 12px 20px; }
footer { background-color: #1a1a1a; color: #f5f5f5; padding: 16px; }
footer a { color: #f5f5f5; }
`

func layout(title, css, lang, body string) string {
	langAttr := ""
	if lang != "" {
		langAttr = fmt.Sprintf(` lang="%s"`, lang)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html%s>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>%s</style>
    <script src="/static/app.js"></script>
</head>
<body>
%s
</body>
</html>`, langAttr, title, css, body)
}

const defectiveNav = `<header>
    <nav>
        <a href="/">Home</a>
        <a href="/projects">Work</a>
        <a href="/contact">Contact</a>
        <a href="/resume" tabindex="3">CV</a>
    </nav>
</header>`

const remediatedNav = `<header>
    <a href="#main">Skip to main content</a>
    <nav aria-label="Primary">
        <a href="/">Home</a>
        <a href="/projects">Projects</a>
        <a href="/contact">Contact</a>
        <a href="/resume">Resume</a>
    </nav>
</header>`

const defectiveFooter = `<footer>
    <p>&copy; 2025 Jane Doe. <a href="https://github.com/janedoe">here</a></p>
</footer>`

const remediatedFooter = `<footer>
    <p>&copy; 2025 Jane Doe. <a href="https://github.com/janedoe">Jane Doe on GitHub</a></p>
</footer>`

// ===== HOME PAGE =====
func getHomePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Hero section with portrait and featured projects",
		Versions: map[int]PageVersion{
			VersionDefective: {
				HTML: layout("Jane Doe", defectiveCSS, "", defectiveNav+`
<main>
    <h1>Jane Doe</h1>
    <p class="tagline">Designer and front-end developer</p>
    <img src="/static/portrait.svg">
    <h3>Featured work</h3>
    <div class="card">
        <img src="/static/orbit.svg" alt="">
        <h4>Orbit</h4>
        <p>A scheduling app for remote teams. <a href="/projects">click here</a></p>
    </div>
    <button class="icon-btn"><img src="/static/arrow.svg"></button>
</main>
`+defectiveFooter),
				Notes: []string{
					"light grey text on white",
					"portrait without alt text",
					"heading levels jump from h1 to h3",
					"icon-only button without a name",
					"focus outline removed",
				},
			},
			VersionRemediated: {
				HTML: layout("Jane Doe", remediatedCSS, "en", remediatedNav+`
<main id="main">
    <h1>Jane Doe</h1>
    <p class="tagline">Designer and front-end developer</p>
    <img src="/static/portrait.svg" alt="Portrait of Jane Doe smiling in her studio">
    <h2>Featured work</h2>
    <div class="card">
        <img src="/static/orbit.svg" alt="" role="presentation">
        <h3>Orbit</h3>
        <p>A scheduling app for remote teams. <a href="/projects">Read the Orbit case study</a></p>
    </div>
    <button class="primary" aria-label="Scroll to featured work">Next</button>
</main>
`+remediatedFooter),
				Notes: []string{"all defects fixed"},
			},
		},
	}
}

// ===== PROJECTS PAGE =====
func getProjectsPage() PageDefinition {
	return PageDefinition{
		Path:        "/projects",
		Description: "Project gallery with screenshots",
		Versions: map[int]PageVersion{
			VersionDefective: {
				HTML: layout("Projects", defectiveCSS, "", defectiveNav+`
<main>
    <h2>Projects</h2>
    <section>
        <h3>Orbit</h3>
        <img src="/static/orbit-1.png">
        <p>Calendar sync for distributed teams.</p>
        <a href="https://orbit.example.com"><img src="/static/external.svg"></a>
    </section>
    <section>
        <h3></h3>
        <div role="img" class="chart"></div>
        <p>Usage grew 4x after the redesign. <a href="https://ledger.example.com">more</a></p>
    </section>
</main>
`+defectiveFooter),
				Notes: []string{
					"no h1",
					"screenshots without alt text",
					"image link with no name",
					"empty heading",
					`role="img" chart without a label`,
				},
			},
			VersionRemediated: {
				HTML: layout("Projects", remediatedCSS, "en", remediatedNav+`
<main id="main">
    <h1>Projects</h1>
    <section>
        <h2>Orbit</h2>
        <img src="/static/orbit-1.png" alt="Orbit week view with three overlapping meetings">
        <p>Calendar sync for distributed teams.</p>
        <a href="https://orbit.example.com">Visit the Orbit website</a>
    </section>
    <section>
        <h2>Ledger</h2>
        <div role="img" class="chart" aria-label="Monthly active users rising from 2,000 to 8,000"></div>
        <p>Usage grew 4x after the redesign. <a href="https://ledger.example.com">Visit the Ledger website</a></p>
    </section>
</main>
`+remediatedFooter),
				Notes: []string{"all defects fixed"},
			},
		},
	}
}

// ===== CONTACT PAGE =====
func getContactPage() PageDefinition {
	return PageDefinition{
		Path:        "/contact",
		Description: "Contact form",
		Versions: map[int]PageVersion{
			VersionDefective: {
				HTML: layout("Contact", defectiveCSS, "", defectiveNav+`
<main>
    <h1>Contact</h1>
    <form action="/contact" method="post">
        <input type="text" name="name" placeholder="Name">
        <label for="email">Email</label>
        <input id="email" type="email" name="email" required aria-invalid="true">
        <textarea name="message" placeholder="Message"></textarea>
        <button type="submit" tabindex="5">Send</button>
    </form>
</main>
`+defectiveFooter),
				Notes: []string{
					"placeholder used instead of labels",
					"required field not marked",
					"invalid field without error text",
					"positive tabindex",
				},
			},
			VersionRemediated: {
				HTML: layout("Contact", remediatedCSS, "en", remediatedNav+`
<main id="main">
    <h1>Contact</h1>
    <form action="/contact" method="post">
        <label for="name">Name</label>
        <input id="name" type="text" name="name" autocomplete="name">
        <label for="email">Email (required)</label>
        <input id="email" type="email" name="email" required aria-required="true" aria-describedby="email-hint">
        <p id="email-hint">We only use your address to reply.</p>
        <label for="message">Message</label>
        <textarea id="message" name="message"></textarea>
        <button type="submit" class="primary">Send message</button>
    </form>
</main>
`+remediatedFooter),
				Notes: []string{"all defects fixed"},
			},
		},
	}
}

// ===== RESUME PAGE =====
func getResumePage() PageDefinition {
	return PageDefinition{
		Path:        "/resume",
		Description: "Resume timeline",
		Versions: map[int]PageVersion{
			VersionDefective: {
				HTML: layout("Resume", defectiveCSS, "", defectiveNav+`
<main>
    <h1>Resume</h1>
    <h1>Experience</h1>
    <ol class="timeline">
        <li><h4>2022 to now</h4><p>Lead designer, Orbit</p></li>
        <li><h4>2019 to 2022</h4><p>Front-end developer, Ledger</p></li>
    </ol>
    <a href="/static/resume.pdf" class="icon-btn"></a>
</main>
`+defectiveFooter),
				Notes: []string{
					"two h1 headings",
					"heading levels jump to h4",
					"empty download link",
				},
			},
			VersionRemediated: {
				HTML: layout("Resume", remediatedCSS, "en", remediatedNav+`
<main id="main">
    <h1>Resume</h1>
    <h2>Experience</h2>
    <ol class="timeline">
        <li><h3>2022 to now</h3><p>Lead designer, Orbit</p></li>
        <li><h3>2019 to 2022</h3><p>Front-end developer, Ledger</p></li>
    </ol>
    <a href="/static/resume.pdf">Download resume (PDF, 120 KB)</a>
</main>
`+remediatedFooter),
				Notes: []string{"all defects fixed"},
			},
		},
	}
}
