package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibrowser/internal/policy"
)

var (
	policyOrigin            string
	policyAllowCrossOrigin  bool
	policyEnforceConnectSrc bool
	policyConnectSrc        []string
	policyDefaultSrc        []string
)

var checkPolicyCmd = &cobra.Command{
	Use:   "check-policy <url>",
	Short: "Evaluate the request policy engine against a single URL, outside of any navigation",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckPolicy,
}

func init() {
	checkPolicyCmd.Flags().StringVar(&policyOrigin, "origin", "", "Requesting document's origin")
	checkPolicyCmd.Flags().BoolVar(&policyAllowCrossOrigin, "allow-cross-origin", true, "Allow requests that cross origin")
	checkPolicyCmd.Flags().BoolVar(&policyEnforceConnectSrc, "enforce-connect-src", false, "Enforce the CSP connect-src/default-src gate")
	checkPolicyCmd.Flags().StringSliceVar(&policyConnectSrc, "connect-src", nil, "CSP connect-src source list")
	checkPolicyCmd.Flags().StringSliceVar(&policyDefaultSrc, "default-src", nil, "CSP default-src source list")
}

func runCheckPolicy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p := policy.RequestPolicy{
		AllowedSchemes:    cfg.AllowedSchemes,
		AllowCrossOrigin:  policyAllowCrossOrigin,
		Origin:            policyOrigin,
		EnforceConnectSrc: policyEnforceConnectSrc,
		ConnectSrcSources: policyConnectSrc,
		DefaultSrcSources: policyDefaultSrc,
	}
	result := policy.CheckRequestPolicy(args[0], p)
	if result.Allowed {
		fmt.Println("allowed")
		return nil
	}
	fmt.Printf("blocked: %s: %s\n", result.Violation, result.Message)
	return nil
}
