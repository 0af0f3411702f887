// cmd/build-readme/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"kiwi-bot/internal/command"
	"kiwi-bot/internal/commands"
	"kiwi-bot/internal/docs"
	"kiwi-bot/internal/logging"

	"go.uber.org/zap"
)

func main() {
	tmpl := flag.String("template", "COMMANDS.md.tmpl", "template file; the built-in one is used when missing")
	out := flag.String("out", "COMMANDS.md", "output file")
	prefix := flag.String("prefix", "!", "prefix shown for text commands")
	flag.Parse()

	log, err := logging.New("warn")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	reg := command.NewRegistry(nil, command.RegistryConfig{}, log)
	reg.LoadCatalog(commands.Catalog())

	if err := docs.UpdateFile(reg, *prefix, *tmpl, *out); err != nil {
		log.Fatal("failed to build command reference", zap.Error(err))
	}
	fmt.Printf("%s updated with %d commands\n", *out, len(reg.All(command.KindSlash))+len(reg.All(command.KindPrefix)))
}
