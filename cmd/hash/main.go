package main

import (
	"fmt"
	"os"

	"github.com/andrasnagy-data/langdetect/internal/components/credentials"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/hash/main.go <password> [sha256|bcrypt]")
		os.Exit(1)
	}

	password := os.Args[1]
	hasherName := credentials.HasherSHA256
	if len(os.Args) > 2 {
		hasherName = os.Args[2]
	}

	hasher, err := credentials.NewHasher(hasherName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Hasher: %s\n", hasherName)
	fmt.Printf("Digest: %s\n", digest)
	fmt.Printf("\nAdd to your users file:\n")
	fmt.Printf("{\"<username>\": %q}\n", digest)
}
