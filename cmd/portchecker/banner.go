package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"portchecker/internal/config"
)

// printBanner 输出大字标题与作者
func printBanner(app *config.AppConfig) {
	if err := pterm.DefaultBigText.
		WithLetters(putils.LettersFromString(app.Name)).
		Render(); err != nil {
		fmt.Println(app.Name)
	}
	pterm.DefaultBasicText.Println(fmt.Sprintf("By %s", app.Author))
	pterm.Println()
}
