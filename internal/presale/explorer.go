// internal/presale/explorer.go
package presale

import "fmt"

const (
	DefaultCluster     = "mainnet-beta"
	DefaultTokenSymbol = "RUBBCOIN"
)

// ExplorerURL returns the Solana Explorer link for a transaction signature.
func ExplorerURL(signature, cluster string) string {
	if cluster == "" {
		cluster = DefaultCluster
	}
	return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=%s", signature, cluster)
}
