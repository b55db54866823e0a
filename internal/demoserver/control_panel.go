package demoserver

const controlPanelHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>Demo Portfolio Control Panel</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background: #f5f5f5; color: #1a1a1a; }
        h1 { border-bottom: 2px solid #0645ad; padding-bottom: 10px; }
        .page-card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .page-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 10px; }
        .page-path { font-size: 1.2em; font-weight: bold; color: #0645ad; }
        .page-desc { color: #4a4a4a; margin: 5px 0; }
        .notes { margin: 8px 0; padding-left: 20px; color: #4a4a4a; }
        .version-controls { display: flex; gap: 10px; align-items: center; margin-top: 10px; }
        .version-btn { padding: 8px 16px; border: none; border-radius: 4px; cursor: pointer; font-size: 14px; }
        .version-btn.active { background: #0645ad; color: white; }
        .version-btn.inactive { background: #e9ecef; color: #1a1a1a; }
        .version-btn:focus-visible, .global-btn:focus-visible { outline: 3px solid #1a1a1a; outline-offset: 2px; }
        .current-version { font-weight: bold; color: #1e6b30; }
        .global-controls { background: #fff3cd; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
        .global-btn { padding: 10px 20px; margin-right: 10px; border: none; border-radius: 4px; cursor: pointer; font-size: 14px; color: white; }
        .fix-btn { background: #1e6b30; }
        .reset-btn { background: #a71d2a; }
        .status { margin-top: 10px; padding: 10px; border-radius: 4px; display: none; }
        .status.success { background: #d4edda; color: #155724; display: block; }
        .status.error { background: #f8d7da; color: #721c24; display: block; }
        .info-box { background: #e7f3ff; padding: 15px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #0645ad; }
    </style>
</head>
<body>
    <h1>Demo Portfolio Control Panel</h1>

    <div class="info-box">
        <strong>How to use:</strong> Version 1 of every page ships with deliberate accessibility defects,
        version 2 fixes them. Switch versions and re-run folio-a11y to watch the score and the issue list change.
    </div>

    <div class="global-controls">
        <h2>Global Controls</h2>
        <button class="global-btn fix-btn" onclick="fixAll()">Fix All Pages</button>
        <button class="global-btn reset-btn" onclick="resetAll()">Reset All to v1</button>
        <div id="global-status" class="status" role="status"></div>
    </div>

    <h2>Pages</h2>
    {{range .Pages}}
    <div class="page-card">
        <div class="page-header">
            <a href="{{.Path}}" target="_blank" class="page-path">{{.Path}}</a>
            <span class="current-version">Current: v{{.CurrentVersion}}</span>
        </div>
        <div class="page-desc">{{.Description}}</div>
        <ul class="notes">
            {{range .Notes}}<li>{{.}}</li>{{end}}
        </ul>
        <div class="version-controls">
            <span>Set version:</span>
            {{$cur := .CurrentVersion}}{{$path := .Path}}
            {{range .AvailableVersions}}
            <button class="version-btn {{if eq $cur .}}active{{else}}inactive{{end}}"
                    onclick="setVersion('{{$path}}', {{.}})">
                v{{.}}
            </button>
            {{end}}
        </div>
    </div>
    {{end}}

    <script>
        function setVersion(path, version) {
            fetch('/demo/set-version', {
                method: 'POST',
                headers: {'Content-Type': 'application/x-www-form-urlencoded'},
                body: 'path=' + encodeURIComponent(path) + '&version=' + version
            })
            .then(r => r.json())
            .then(data => { if (data.success) location.reload(); });
        }

        function fixAll() {
            fetch('/demo/fix-all', {method: 'POST'})
            .then(r => r.json())
            .then(data => {
                showGlobalStatus(data.success, data.message);
                if (data.success) location.reload();
            });
        }

        function resetAll() {
            fetch('/demo/reset', {method: 'POST'})
            .then(r => r.json())
            .then(data => {
                showGlobalStatus(data.success, data.message);
                if (data.success) location.reload();
            });
        }

        function showGlobalStatus(success, message) {
            const el = document.getElementById('global-status');
            el.textContent = message;
            el.className = 'status ' + (success ? 'success' : 'error');
        }
    </script>
</body>
</html>`
