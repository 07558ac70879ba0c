// Command validate checks the table configuration JSON files in the
// ../configs directory (or the directory given as the first argument):
//   - JSON structure, rejecting unknown fields
//   - required fields and ranges, via engine.ValidateGameConfig
//   - a fixed seed produces a legal deal
//   - which optional messages are left empty
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/wricardo/klondike/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}
	result.note("Table %q: win notification after %dms", config.Name, config.WinNotifyDelayMs)

	if config.Seed != nil {
		checkSeed(&result, *config.Seed)
	}

	if missing := missingMessages(config.Messages); len(missing) > 0 {
		result.note("No text for: %s", strings.Join(missing, ", "))
	} else {
		result.note("All messages set")
	}

	return result
}

// checkSeed deals the first game for seed and checks the layout
func checkSeed(result *ValidationResult, seed int64) {
	board, err := engine.Deal(engine.Shuffle(engine.BuildDeck(), engine.NewRandRNG(seed)))
	if err != nil {
		result.fail("Seed %d: %v", seed, err)
		return
	}
	if err := board.CheckConservation(); err != nil {
		result.fail("Seed %d: %v", seed, err)
		return
	}

	var tops []string
	for col := 0; col < engine.NumTableau; col++ {
		if top, ok := board.Top(engine.Tableau(col)); ok {
			tops = append(tops, top.ID)
		}
	}
	result.note("Seed %d deals %s", seed, strings.Join(tops, " "))
}

func missingMessages(m engine.Messages) []string {
	optional := []struct {
		key  string
		text string
	}{
		{"selected", m.Selected},
		{"moved", m.Moved},
		{"rejected", m.Rejected},
		{"deselected", m.Deselected},
		{"drew", m.Drew},
		{"recycled", m.Recycled},
		{"stock_empty", m.StockEmpty},
	}
	var missing []string
	for _, o := range optional {
		if o.text == "" {
			missing = append(missing, o.key)
		}
	}
	return missing
}

// validateDir validates every *.json file in dir and reports whether all passed
func validateDir(dir string) ([]ValidationResult, bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, false, err
	}
	if len(files) == 0 {
		return nil, false, fmt.Errorf("no configuration files in %s", dir)
	}

	allValid := true
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		result := validateConfig(file)
		allValid = allValid && result.Valid
		results = append(results, result)
	}
	return results, allValid, nil
}

// main validates each configuration, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	results, allValid, err := validateDir(configDir)
	if err != nil {
		pterm.Error.Printfln("Error finding config files: %v", err)
		os.Exit(1)
	}

	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			pterm.Println(pterm.Green("VALID"))
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			pterm.Println(pterm.Red("INVALID"))
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  " + pterm.Red("x ") + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		pterm.Success.Println("All configurations are valid!")
	} else {
		pterm.Error.Println("Some configurations have errors")
		os.Exit(1)
	}
}
