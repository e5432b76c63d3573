package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/junwei-lu/pricelens/config"
	"github.com/junwei-lu/pricelens/internal/aggregate"
	"github.com/junwei-lu/pricelens/internal/alibaba"
	"github.com/junwei-lu/pricelens/internal/httputil"
	"github.com/junwei-lu/pricelens/internal/momo"
	"github.com/junwei-lu/pricelens/internal/pchome"
	"github.com/junwei-lu/pricelens/internal/platform"
	"github.com/junwei-lu/pricelens/internal/shopee"
	"github.com/junwei-lu/pricelens/internal/stealth"
	"github.com/junwei-lu/pricelens/internal/store"
)

var (
	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "pricelens",
	Short: "PriceLens - cross-platform price comparison CLI & MCP server",
	Long:  "Search Shopee, PChome, momo and 1688 at once, rank offers by price, and track the results.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringSlice("platforms", nil, "Platforms to query (default: all)")
	rootCmd.PersistentFlags().String("delay-profile", "normal", "Delay profile: cautious, normal, aggressive")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().Bool("live", false, "Query live marketplace endpoints instead of offline data")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		log.SetLevel(logrus.DebugLevel)
	}

	if v, _ := rootCmd.PersistentFlags().GetStringSlice("platforms"); len(v) > 0 {
		cfg.Platforms = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("live"); v {
		cfg.LiveMode = true
	}
}

// buildHTTPClient creates the stealth-wrapped HTTP client from config.
func buildHTTPClient() *http.Client {
	fpPool := stealth.NewFingerprintPool()
	delay := stealth.NewHumanDelay(stealth.DelayProfile(cfg.DelayProfile))
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)

	baseTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	robotsClient := &http.Client{}
	robots := stealth.NewRobotsChecker(robotsClient, cfg.RespectRobots)

	transport := &stealth.Transport{
		Base:        baseTransport,
		Robots:      robots,
		Fingerprint: fpPool,
		Delay:       delay,
		RateLimiter: limiter,
	}

	return httputil.NewHTTPClient(transport)
}

// initEngine registers every platform crawler and returns the aggregator
// that fans searches out across them.
func initEngine() *aggregate.Aggregator {
	client := buildHTTPClient()
	entry := logrus.NewEntry(log)
	synthetic := !cfg.LiveMode

	platform.Register("shopee", shopee.New(client, entry, shopee.Options{Synthetic: synthetic}))
	platform.Register("pchome", pchome.New(client, entry, pchome.Options{Synthetic: synthetic}))
	platform.Register("momo", momo.New(client, entry, momo.Options{Synthetic: synthetic}))
	platform.Register("1688", alibaba.New(client, entry, alibaba.Options{Synthetic: synthetic}))

	return aggregate.New(platform.Default, entry, aggregate.WithCache())
}

func favoritesStore() *store.Favorites {
	return store.NewFavorites(store.NewFileStore[store.Favorite](cfg.DataDir, store.KeyFavorites))
}

func historyStore() *store.History {
	return store.NewHistory(store.NewFileStore[store.HistoryEntry](cfg.DataDir, store.KeyHistory))
}

func alertsStore() *store.Alerts {
	return store.NewAlerts(store.NewFileStore[store.PriceAlert](cfg.DataDir, store.KeyPriceAlerts))
}

func vendorsStore() *store.Vendors {
	return store.NewVendors(store.NewFileStore[store.Vendor](cfg.DataDir, store.KeyVendors))
}
