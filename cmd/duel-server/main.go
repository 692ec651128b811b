package main

import (
	"os"
	"time"

	"github.com/kingsholm/duel-server/internal/api"
	"github.com/kingsholm/duel-server/internal/config"
	"github.com/kingsholm/duel-server/internal/constants"
	"github.com/kingsholm/duel-server/internal/events"
	"github.com/kingsholm/duel-server/internal/logging"
	"github.com/kingsholm/duel-server/internal/service"
	"github.com/kingsholm/duel-server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	// Rule configuration file is required. Path may be provided via
	// DUEL_CONFIG or defaults to ./duel_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvDuelConfig)
	if configPath == "" {
		configPath = "./duel_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid duel configuration", err, logging.Fields{"config_path": configPath, "hint": "create a duel_config.json with base_odds, push_weights, crit_multiplier and a 'style_list' array of style objects (id,name,icon,swing_delta,self_hit_delta,self_crit_delta,enemy_hit_delta,enemy_crit_delta,feint)"})
	}

	// Allow the DB path to be configured via DUEL_DB. Default to a
	// `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDuelDB)
	if dbPath == "" {
		dbPath = "./data/duels.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	hub := events.NewHub(repo, cfg.Rules)
	handler := api.NewDuelHandler(repo, cfg.Rules, hub, cfg.UI, cfg.StartingGold)
	authHandler := api.NewAuthHandler(repo, cfg.StartingGold)

	startLobbyJanitor(repo, hub, cfg.LobbyTTL)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteStyles, handler.ListStyles)
		apiRoutes.GET(constants.RouteOpenDuels, handler.ListOpenDuels)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RouteDuels, handler.CreateDuel)
		protected.POST(constants.RouteDuelsJoin, handler.JoinDuel)
		protected.GET(constants.RouteDuelByCode, handler.GetDuel)
		protected.POST(constants.RouteDuelAccept, handler.AcceptDuel)
		protected.POST(constants.RouteDuelDecline, handler.DeclineDuel)
		protected.POST(constants.RouteDuelCancel, handler.CancelDuel)
		protected.POST(constants.RouteDuelStart, handler.StartDuel)
		protected.POST(constants.RouteDuelStyle, handler.LockStyle)
		protected.POST(constants.RouteDuelSwing, handler.Swing)
		protected.POST(constants.RouteDuelStop, handler.StopSwinging)
		protected.POST(constants.RouteDuelForfeit, handler.Forfeit)
		protected.POST(constants.RouteDuelClaimTimeout, handler.ClaimTimeout)
		protected.GET(constants.RouteEvents, handler.DuelEvents)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

// startLobbyJanitor cancels lobbies that never reached a fight within the
// configured TTL. Turn deadlines inside a fight are not scanned here; they
// resolve lazily when the waiting player claims the timeout.
func startLobbyJanitor(repo storage.Repository, bc service.Broadcaster, ttl time.Duration) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("Failed to create scheduler", err, nil)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			stale, err := repo.FindStaleLobbies(time.Now(), ttl)
			if err != nil {
				logging.Error("lobby janitor scan failed", err, nil)
				return
			}
			for i := range stale {
				if _, err := service.ExpireLobby(repo, bc, stale[i].JoinCode); err != nil {
					logging.Error("failed to expire lobby", err, logging.Fields{constants.LogFieldCode: stale[i].JoinCode})
				}
			}
		}),
	)
	if err != nil {
		logging.Fatal("Failed to schedule lobby janitor", err, nil)
	}
	sched.Start()
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
