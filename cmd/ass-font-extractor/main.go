package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MontageSubs/ass-tools/ass"
	"github.com/MontageSubs/ass-tools/font"
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
	outDir = flag.String("outdir", "fonts", "Directory to place the extracted font files")
	quiet  = flag.Bool("quiet", false, "Suppress progress messages")
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
		// 解码和校验错误终止当前文件的提取，出错原因经返回值统一报告
		return false
	}
	return true
}

func fatal(err error) {
	fmt.Printf("%s[ERROR]%s %s\n", ColorRed, ColorReset, err.Error())
	os.Exit(1)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input.ass>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	input, err := os.Open(flag.Arg(0))
	if err != nil {
		fatal(err)
	}
	doc, err := ass.NewDocument(input)
	input.Close()
	if err != nil {
		fatal(err)
	}

	written, err := font.DecodeEmbedded(doc, *outDir, logger)
	if err != nil {
		fatal(err)
	}

	if !*quiet {
		fmt.Printf("%s[INFO]%s extracted %d font(s) to %s\n", ColorBlue, ColorReset, len(written), *outDir)
	}
	fmt.Println("success!")
}
