package icons

// AliasTable maps a short or alternate token to a catalog base name. Lookups
// are a single hop: values are never resolved through the table again.
type AliasTable map[string]string

// Lookup returns the base name registered for token.
func (a AliasTable) Lookup(token string) (string, bool) {
	base, ok := a[token]
	return base, ok
}

// DefaultAliases is the curated alias table shipped with the service.
var DefaultAliases = AliasTable{
	"js":                "javascript",
	"ts":                "typescript",
	"py":                "python",
	"tailwind":          "tailwindcss",
	"vue":               "vuejs",
	"nuxt":              "nuxtjs",
	"go":                "golang",
	"cf":                "cloudflare",
	"wasm":              "webassembly",
	"postgres":          "postgresql",
	"k8s":               "kubernetes",
	"next":              "nextjs",
	"mongo":             "mongodb",
	"md":                "markdown",
	"ps":                "photoshop",
	"ai":                "illustrator",
	"pr":                "premiere",
	"ae":                "aftereffects",
	"scss":              "sass",
	"sc":                "scala",
	"net":               "dotnet",
	"gatsbyjs":          "gatsby",
	"gql":               "graphql",
	"vlang":             "v",
	"amazonwebservices": "aws",
	"bots":              "discordbots",
	"express":           "expressjs",
	"googlecloud":       "gcp",
	"mui":               "materialui",
	"windi":             "windicss",
	"unreal":            "unrealengine",
	"nest":              "nestjs",
	"ktorio":            "ktor",
	"pwsh":              "powershell",
	"au":                "audition",
	"rollup":            "rollupjs",
	"rxjs":              "reactivex",
	"rxjava":            "reactivex",
	"ghactions":         "githubactions",
	"sklearn":           "scikitlearn",
	"uniswap":           "uniswap",
	"pancakeswap":       "pancakeswap",
	"jup6":              "jup6",
	"solana":            "solana",
	"polygon":           "polygon",
	"bnb":               "bnb",
	"ethereum":          "ethereum",
}
