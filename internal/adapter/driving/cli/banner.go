package cli

import (
	"fmt"

	"github.com/diillson/sms-kpi-dashboard-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
           _____ __  ________    __ __ ____  ____
          / ___//  |/  / ___/   / //_// __ \/  _/
          \__ \/ /|_/ /\__ \   / ,<  / /_/ // /  
         ___/ / /  / /___/ /  / /| |/ ____// /   
        /____/_/  /_//____/  /_/ |_/_/   /___/   
        `
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(magenta(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("SMS KPI Dashboard CLI (v%s)", formattedVersion)))
}
