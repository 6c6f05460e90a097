package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/wb_tickets/pkg/validate"
)

// CLI-приложение для проверки и расчёта покупок без оплаты и бронирования.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads JSONL from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	flag.Parse()

	format, err := validate.ParseFormat(*formatStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v (want auto|json|jsonl)\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validator := validate.NewPurchaseValidator()

	var rep validate.Report
	if *inputPath == "" {
		rep, err = validate.ValidateReader(ctx, validator, os.Stdin, format, os.Stdout)
	} else {
		rep, err = validate.ValidateFile(ctx, validator, *inputPath, format, os.Stdout)
	}

	if line := rep.RejectionsLine(); line != "" {
		fmt.Fprintf(os.Stderr, "rejections: %s\n", line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, rep)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", rep)
}
