package main

import "github.com/masmgr/updatechangelog-go/cmd"

func main() {
	cmd.Run()
}
