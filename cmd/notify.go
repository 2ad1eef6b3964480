package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/notifications"
)

var (
	notifyTitulo string
	notifyTipo   string
)

var notifyCmd = &cobra.Command{
	Use:   "notify <mensagem>",
	Short: "Add a notification to the notifications page",
	Long:  `Stores a notification in the clinic database. The message is markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)

		database, err := openDatabase(cfg, false)
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := notifications.NewStore(database).Create(context.Background(), notifications.Notification{
			Titulo:   notifyTitulo,
			Mensagem: args[0],
			Tipo:     notifications.Kind(notifyTipo),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created notification %s\n", n.ID)
		return nil
	},
}

func init() {
	notifyCmd.Flags().StringVarP(&notifyTitulo, "titulo", "t", "", "Notification title (required)")
	notifyCmd.Flags().StringVar(&notifyTipo, "tipo", string(notifications.KindInfo), "info, alerta or urgente")
	notifyCmd.MarkFlagRequired("titulo")
	rootCmd.AddCommand(notifyCmd)
}
