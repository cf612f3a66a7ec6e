package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"raisecore/config"
)

func main() {
	paramsPath := flag.String("params", "raise.toml", "path to the raise params file")
	flag.Parse()

	params, err := config.Load(*paramsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raisegen: %v\n", err)
		os.Exit(1)
	}
	msg, err := params.InstantiateMsg()
	if err != nil {
		fmt.Fprintf(os.Stderr, "raisegen: %v\n", err)
		os.Exit(1)
	}
	encoded, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "raisegen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
