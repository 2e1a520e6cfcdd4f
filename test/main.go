package main

import (
	"fmt"

	"github.com/henderiw/marktable/pkg/styletable"
)

// styles a small document, reshapes it, and prints the collapsed segments
func main() {
	doc := styletable.New()
	// "hello bold world" with bold on "bold" and a link on "bold world"
	if err := doc.Apply(styletable.Bold(), 6, 9); err != nil {
		panic(err)
	}
	if err := doc.Apply(styletable.Link("https://example.com"), 6, 15); err != nil {
		panic(err)
	}
	printSegments("initial", doc, 16)

	if err := doc.Toggle(styletable.Italic(), 0, 4); err != nil {
		panic(err)
	}
	printSegments("after italic toggle", doc, 16)

	// delete " bold" (offsets 5-9)
	doc.DeleteText(5, 5)
	printSegments("after delete", doc, 11)

	for _, span := range doc.Links(0, 10) {
		fmt.Printf("link span [%d,%d]: %v\n", span.Start, span.End, span.Attribution)
	}

	tail := doc.Extract(5, 10)
	printSegments("extracted tail", tail, 6)
}

func printSegments(stage string, doc styletable.StyleTable, n int64) {
	fmt.Println(stage)
	for _, seg := range doc.Segments(n) {
		fmt.Printf("  [%d,%d] %v\n", seg.Start, seg.End, seg.Attributions)
	}
}
