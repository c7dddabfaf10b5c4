package main

import "gearshare-backend/cmd"

func main() {
	cmd.Run()
}
