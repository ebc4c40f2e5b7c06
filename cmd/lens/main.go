// Command lens applies real-time filters to a synthetic or file-backed frame
// stream, either in a window or headless to PNG files.
package main

func main() {
	Execute()
}
