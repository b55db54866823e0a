// Command folio-a11y audits portfolio pages for accessibility issues and
// serves the audit API.
package main

import (
	"os"

	"github.com/raysh454/folio-a11y/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
