package main

import (
	"railwatch/cmd/railwatch/commands"
	"railwatch/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
