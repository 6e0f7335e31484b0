package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/services"
)

// RunSeedPromptsCommand stores the prompt catalog when the table is empty.
// An empty promptsFile selects the built-in catalog.
func RunSeedPromptsCommand(cfg db.Config, promptsFile string, out io.Writer) error {
	catalogConfig, err := services.LoadPollCatalogConfig(promptsFile)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		_ = db.Close(database)
	}()

	catalog := services.NewPollCatalog(catalogConfig, db.NewPollPromptRepository(database))
	inserted, err := catalog.SeedIfEmpty()
	if err != nil {
		return err
	}
	if inserted == 0 {
		fmt.Fprintln(out, "Poll prompts already present, nothing to do")
		return nil
	}
	fmt.Fprintf(out, "Seeded %d poll prompts\n", inserted)
	return nil
}
