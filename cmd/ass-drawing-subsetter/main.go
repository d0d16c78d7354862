package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/MontageSubs/ass-tools/font"
	"github.com/MontageSubs/ass-tools/subsetter"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorGreen  = "\033[32m"
	ColorCyan   = "\033[36m"
)

var (
	outputPath     = flag.String("output", "", "Path to the output ass file, default is <input>_optimized.ass")
	fontName       = flag.String("fontname", "", "Family name of the embedded glyph font")
	codepointStart = flag.String("codepoint-start", "E000", "First codepoint of the glyph range (hex)")
	codepointEnd   = flag.String("codepoint-end", "F8FF", "Last codepoint of the glyph range (hex)")
	quiet          = flag.Bool("quiet", false, "Suppress progress messages")
)

func logger(err error) bool {
	switch err.(type) {
	case *font.InfoMsg:
		if !*quiet {
			fmt.Printf("%s[INFO]%s %s\n", ColorBlue, ColorReset, err.Error())
		}
	case *font.WarningMsg:
		fmt.Printf("%s[WARNING]%s %s\n", ColorYellow, ColorReset, err.Error())
	default:
		fmt.Printf("%s[ERROR]%s %s\n", ColorRed, ColorReset, err.Error())
	}
	return true
}

func fatal(err error) {
	fmt.Printf("%s[ERROR]%s %s\n", ColorRed, ColorReset, err.Error())
	os.Exit(1)
}

func parseCodepoint(name, v string) rune {
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		fatal(fmt.Errorf("invalid %s value %q: %w", name, v, err))
	}
	return rune(n)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input.ass>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	s := subsetter.New(
		subsetter.WithFontName(*fontName),
		subsetter.WithCodepointRange(
			parseCodepoint("codepoint-start", *codepointStart),
			parseCodepoint("codepoint-end", *codepointEnd),
		),
		subsetter.WithCheckErr(logger),
	)

	output, err := s.ProcessFile(flag.Arg(0), *outputPath)
	if err != nil {
		fatal(err)
	}

	if !*quiet {
		fmt.Printf("%s[INFO]%s written %s\n", ColorBlue, ColorReset, output)
	}
	fmt.Println("success!")
}
