package main

import (
	"fmt"
	"os"

	"github.com/jafarshop/productcreator/internal/catalog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/list-choices/main.go <metafield-key>")
		fmt.Println("Keys: custom_category, subcategory, subcategory_2, subcategory_N")
		os.Exit(1)
	}

	key := os.Args[1]
	choices := catalog.ChoicesForKey(key)
	if choices == nil {
		fmt.Fprintf(os.Stderr, "No choices for metafield key %q\n", key)
		os.Exit(1)
	}
	for _, c := range choices {
		fmt.Println(c)
	}
}
