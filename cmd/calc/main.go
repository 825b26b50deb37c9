// Command calc drives a calculator engine from the terminal.
//
//	calc 2 + 3 =
//	echo "5 0 %" | calc
//
// Each token is one button press; the display is printed after every press.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"calcsvc/internal/calculator"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run presses args in order, or every whitespace separated token from in when
// args is empty. Unknown tokens are reported on errOut and skipped.
func run(args []string, in io.Reader, out, errOut io.Writer) error {
	engine := calculator.NewEngine()

	press := func(tok string) {
		k, err := calculator.ParseKey(tok)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return
		}
		display, err := engine.Press(k)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return
		}
		fmt.Fprintln(out, display)
	}

	if len(args) > 0 {
		for _, tok := range args {
			press(tok)
		}
		return nil
	}

	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		press(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
