// Copyright © 2018 The ELPS authors

package main

import "github.com/flyrain/lispet/cmd"

func main() {
	cmd.Execute()
}
