// Command syncctl drives the entity sync engine from the command line.
package main

import (
	"os"

	"github.com/MKhiriev/go-entity-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	info := models.NewAppBuildInfo(orNA(buildVersion), orNA(buildDate), orNA(buildCommit))

	cmd := newRootCmd(newApp(info, os.Stdout))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
