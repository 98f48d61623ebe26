package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"feeder/internal/ipc"
	"feeder/internal/voice"
)

func main() {
	socket := cli.String("socket", ipc.DefaultSocket, "Daemon socket path")
	intent := cli.String("intent", "feedPet", "Inference intent")
	understood := cli.Bool("understood", true, "Mark the inference as understood")
	slots := cli.StringArray("slot", nil, "Inference slot as key=value (repeatable)")
	cli.Parse()

	var ev voice.Event
	switch cli.Arg(0) {
	case "wake":
		ev = voice.Event{Kind: voice.KindWake}
	case "feed":
		ev = voice.Event{
			Kind:       voice.KindInference,
			Understood: *understood,
			Intent:     *intent,
			Slots:      parseSlots(*slots),
		}
	default:
		fmt.Println("usage: feeder-ctl [flags] wake|feed")
		os.Exit(2)
	}

	if err := ipc.Send(*socket, ev); err != nil {
		fmt.Println("feederd not running:", err)
	}
}

func parseSlots(args []string) []voice.Slot {
	var slots []voice.Slot
	for _, a := range args {
		k, v, _ := strings.Cut(a, "=")
		slots = append(slots, voice.Slot{Key: k, Value: v})
	}
	return slots
}
