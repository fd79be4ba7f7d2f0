// Command homeboard-server runs the household alarm scheduler and the
// dashboard JSON API.
package main

import "github.com/example/homeboard/cmd/homeboard-server/cmd"

func main() {
	cmd.Execute()
}
