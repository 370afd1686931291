/*
Copyright © 2025 thiiagovboas
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eureca-assistant",
	Short: "Assistente conversacional sobre a Lei do Jovem Aprendiz",
	Long: `Backend do assistente da Eureca para dúvidas de empresas sobre o
programa Jovem Aprendiz. Responde com base nos documentos oficiais do
programa, mantendo o contexto da empresa durante a conversa.

Use "start" para subir o servidor HTTP e "ingest" para processar os
documentos e montar o índice de busca.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}
