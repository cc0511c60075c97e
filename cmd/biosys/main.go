package main

import "github.com/gaiaresources/biosys/cmd"

func main() {
	cmd.Execute()
}
