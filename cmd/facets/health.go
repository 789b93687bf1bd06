package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/client"
	"github.com/alfredjeanlab/facets/internal/server"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the facets service",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := map[string]string{}

		status, err := facetsClient.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}
		out["http"] = status

		if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
			gc, err := client.NewGRPCClient(addr, authToken)
			if err != nil {
				return err
			}
			defer gc.Close()
			grpcStatus, err := gc.Health(cmd.Context(), server.ServiceName)
			if err != nil {
				return fmt.Errorf("checking gRPC health: %w", err)
			}
			out["grpc"] = grpcStatus
		}

		if jsonOutput {
			if err := printJSON(out); err != nil {
				return err
			}
		} else {
			fmt.Printf("Health: %s\n", out["http"])
			if s, ok := out["grpc"]; ok {
				fmt.Printf("gRPC:   %s\n", s)
			}
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		if s, ok := out["grpc"]; ok && s != "SERVING" {
			return fmt.Errorf("gRPC unhealthy: %s", s)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().String("grpc", "", "also check the gRPC health service at this address")
}
