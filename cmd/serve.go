package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonix-bot/harmonix-web/config"
	"github.com/harmonix-bot/harmonix-web/server"
	"github.com/harmonix-bot/harmonix-web/status"
)

func init() {
	cmdRoot.AddCommand(cmdServe())
}

func cmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the web player API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			cfg.Apply()

			if address, _ := cmd.Flags().GetString("address"); address != "" {
				cfg.Server.Address = address
			}
			return server.New(cfg.Server.Address,
				status.NewClient(cfg.Node.Host, cfg.Node.Password)).Run()
		},
	}
	cmd.Flags().StringP("address", "a", "", "Address to listen on")
	return cmd
}
