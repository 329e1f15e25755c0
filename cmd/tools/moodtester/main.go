package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/zhouzirui/charbot/internal/service/emotion"
)

func main() {
	analyzer := flag.String("analyzer", emotion.AnalyzerVader, "sentiment analyzer: vader or lexicon")
	override := flag.String("override", "None", "mood override applied to every line")
	flag.Parse()

	svc, err := emotion.NewService(emotion.Config{Analyzer: *analyzer})
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}

	lines := flag.Args()
	if len(lines) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			log.Fatalf("read stdin: %v", err)
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		guidance, err := svc.Resolve(*override, line)
		if err != nil {
			log.Fatalf("resolve %q: %v", line, err)
		}
		fmt.Printf("%-10s %+.3f %-10s %s\n", guidance.Mood, guidance.Polarity, guidance.Source, line)
	}
}
