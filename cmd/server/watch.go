package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	grpcserver "zapp/internal/grpc"
)

var (
	watchAddr      string
	watchToken     string
	watchAvailable bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream order changes for the token's user as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchToken == "" {
			return fmt.Errorf("--token is required")
		}
		conn, err := grpc.NewClient(watchAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("dial %s: %w", watchAddr, err)
		}
		defer conn.Close()

		ctx := metadata.AppendToOutgoingContext(cmd.Context(), "authorization", "Bearer "+watchToken)
		enc := json.NewEncoder(cmd.OutOrStdout())
		return grpcserver.NewClient(conn).WatchOrders(ctx,
			&grpcserver.WatchOrdersRequest{IncludeAvailable: watchAvailable},
			func(e grpcserver.WatchEvent) error { return enc.Encode(e) })
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchAddr, "addr", "localhost:50051", "Server address")
	watchCmd.Flags().StringVar(&watchToken, "token", "", "Bearer token")
	watchCmd.Flags().BoolVar(&watchAvailable, "available", false, "Also stream orders open for claiming")
	rootCmd.AddCommand(watchCmd)
}
