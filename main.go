/*
Copyright © 2026 JACOB ARTHURS
*/
package main

import "github.com/jacobarthurs/flake8lint/cmd"

func main() {
	cmd.Execute()
}
