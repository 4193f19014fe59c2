// Command render renders pages from a template tree.
//
// Usage:
//
//	render page default/home default/news --data data.yaml
//	render view default/partials/menu --data data.yaml
//	render engine home --dir views --data data.yaml --out home.html
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
