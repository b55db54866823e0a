// Command demoserver serves the folio-a11y demo portfolio, whose pages switch
// between a defective and a remediated version.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/folio-a11y/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   folio-a11y Demo Portfolio")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Every page starts with deliberate accessibility")
	fmt.Println("defects (v1) and has a remediated version (v2).")
	fmt.Println()
	fmt.Println("Defects on v1:")
	fmt.Println("  - Low contrast text and links")
	fmt.Println("  - Missing alt text and unnamed controls")
	fmt.Println("  - Broken heading outline")
	fmt.Println("  - Unlabeled form fields and silent validation errors")
	fmt.Println("  - Suppressed focus rings and positive tabindex")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
