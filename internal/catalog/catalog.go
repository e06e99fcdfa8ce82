// Package catalog holds the static model and pricing configuration. It is
// configuration, not user data: the free set is always unlocked, premium
// models carry a one-time unlock price, and every provider call costs one
// token regardless of model.
package catalog

// InitialTokens is the grant given to a freshly provisioned account.
const InitialTokens = 10

var (
	FreeModels    = []string{"ChatGPT", "DeepSeek", "Gemini"}
	PremiumModels = []string{"Claude", "Perplexity", "Grok"}
)

// ModelPrices maps premium models to their unlock price in INR.
var ModelPrices = map[string]int{
	"Claude":     299,
	"Perplexity": 249,
	"Grok":       349,
}

// TokenPackage is a purchasable credit bundle.
type TokenPackage struct {
	Tokens int
	Price  int // in INR
}

var TokenPackages = map[string]TokenPackage{
	"small":  {Tokens: 10, Price: 99},
	"medium": {Tokens: 50, Price: 399},
	"large":  {Tokens: 100, Price: 699},
}

// IsPremium reports whether model is a purchasable premium model.
func IsPremium(model string) bool {
	for _, m := range PremiumModels {
		if m == model {
			return true
		}
	}
	return false
}

// AllModels returns the full catalog, free models first.
func AllModels() []string {
	all := make([]string, 0, len(FreeModels)+len(PremiumModels))
	all = append(all, FreeModels...)
	all = append(all, PremiumModels...)
	return all
}
