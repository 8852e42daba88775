// Command stormc validates storm entity declarations.
package main

func main() {
	Execute()
}
