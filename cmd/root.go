package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonix-bot/harmonix-web/util"
)

var cmdRoot = &cobra.Command{
	Use:   "harmonix-web",
	Short: "Backend and lookup tooling for the Harmonix web player",
}

func Execute() {
	util.ErrSuppress(cmdRoot.Execute())
}
