// gestoria: servidor de autorización e identidad multi-despacho para el CRM.
//
// Comandos: serve (API + barrido de tokens), purge-tokens (barrido puntual),
// seed (oficina de plataforma + cuenta super_admin inicial).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/gestoria/internal/accounts"
	"github.com/dropDatabas3/gestoria/internal/authz"
	"github.com/dropDatabas3/gestoria/internal/branding"
	"github.com/dropDatabas3/gestoria/internal/cache"
	memcache "github.com/dropDatabas3/gestoria/internal/cache/memory"
	rediscache "github.com/dropDatabas3/gestoria/internal/cache/redis"
	"github.com/dropDatabas3/gestoria/internal/config"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/email"
	httpapi "github.com/dropDatabas3/gestoria/internal/http"
	"github.com/dropDatabas3/gestoria/internal/metrics"
	"github.com/dropDatabas3/gestoria/internal/observability/logger"
	"github.com/dropDatabas3/gestoria/internal/office"
	"github.com/dropDatabas3/gestoria/internal/rate"
	"github.com/dropDatabas3/gestoria/internal/security/password"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
	"github.com/dropDatabas3/gestoria/internal/store/pg"
	"github.com/dropDatabas3/gestoria/internal/tokens"
)

func main() {
	_ = godotenv.Load(".env")

	var cfgPath string

	root := &cobra.Command{
		Use:   "gestoria",
		Short: "Núcleo de autorización e identidad multi-despacho",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Ruta del fichero de configuración")

	root.AddCommand(serveCmd(&cfgPath))
	root.AddCommand(purgeTokensCmd(&cfgPath))
	root.AddCommand(seedCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// repos agrupa las implementaciones concretas tras las interfaces del
// dominio; el resto del wiring no sabe qué driver hay debajo.
type repos struct {
	overrides repository.OverrideRepository
	tokens    repository.EmailTokenRepository
	branding  repository.BrandingRepository
	offices   repository.OfficeRepository
	users     repository.UserRepository
	audit     repository.AuditRepository

	close func()
}

func buildRepos(ctx context.Context, cfg *config.Config) (*repos, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := pg.Connect(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &repos{
			overrides: store.Overrides,
			tokens:    store.Tokens,
			branding:  store.Branding,
			offices:   store.Offices,
			users:     store.Users,
			audit:     store.Audit,
			close:     store.Close,
		}, nil
	default:
		return &repos{
			overrides: memory.NewOverrideStore(),
			tokens:    memory.NewEmailTokenStore(),
			branding:  memory.NewBrandingStore(),
			offices:   memory.NewOfficeStore(),
			users:     memory.NewUserStore(),
			audit:     memory.NewAuditStore(),
			close:     func() {},
		}, nil
	}
}

type app struct {
	cfg      *config.Config
	repos    *repos
	accounts *accounts.Service
	tokens   *tokens.Service
	engine   *authz.Engine
	resolver *branding.Resolver
	registry *office.Registry
	server   *httpapi.Server
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger.Init(logger.Config{Env: cfg.App.Env, Level: "info"})

	r, err := buildRepos(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// cache para el resolver de branding + cliente redis para rate limiting
	var brandingCache cache.Cache
	var redisClient *rediscache.Cache
	cacheTTL := config.Dur(cfg.Cache.TTL, 2*time.Minute)
	switch cfg.Cache.Kind {
	case "redis":
		redisClient = rediscache.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
		brandingCache = redisClient
	default:
		brandingCache = memcache.New(cacheTTL)
	}

	resolver := branding.NewResolver(r.branding, branding.WithCache(brandingCache, cacheTTL))

	pol := password.Policy{
		MinLength:     cfg.Security.PasswordPolicy.MinLength,
		RequireUpper:  cfg.Security.PasswordPolicy.RequireUpper,
		RequireLower:  cfg.Security.PasswordPolicy.RequireLower,
		RequireDigit:  cfg.Security.PasswordPolicy.RequireDigit,
		RequireSymbol: cfg.Security.PasswordPolicy.RequireSymbol,
	}
	acc := accounts.NewService(r.users, accounts.WithPolicy(pol))

	tok := tokens.NewService(r.tokens, r.users,
		tokens.WithVerifyTTL(cfg.Auth.Verify.TTL),
		tokens.WithResetTTL(cfg.Auth.Reset.TTL),
	)

	engine := authz.NewEngine(authz.DefaultCatalog(), r.overrides, r.audit)
	registry := office.NewRegistry(r.offices)

	var sender email.Sender
	if cfg.SMTP.Host != "" {
		s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		s.TLSMode = cfg.SMTP.TLS
		s.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		sender = s
	} else {
		sender = email.LogSender{}
	}
	mailer, err := email.NewMailer(sender, resolver, cfg.Email.BaseURL)
	if err != nil {
		r.close()
		return nil, err
	}

	sessions := httpapi.NewSessions(cfg.JWT.Secret, cfg.JWT.Issuer,
		config.Dur(cfg.JWT.SessionTTL, 12*time.Hour))

	var forgotLimiter, resendLimiter rate.Limiter
	if cfg.Rate.Enabled {
		if redisClient != nil {
			prefix := cfg.Cache.Redis.Prefix
			forgotLimiter = rate.NewRedisLimiter(redisClient.Client(), prefix+"rl:forgot:",
				cfg.Rate.Forgot.Limit, config.Dur(cfg.Rate.Forgot.Window, 10*time.Minute))
			resendLimiter = rate.NewRedisLimiter(redisClient.Client(), prefix+"rl:resend:",
				cfg.Rate.Resend.Limit, config.Dur(cfg.Rate.Resend.Window, 10*time.Minute))
		} else {
			forgotLimiter = rate.NewMemoryLimiter(cfg.Rate.Forgot.Limit, config.Dur(cfg.Rate.Forgot.Window, 10*time.Minute))
			resendLimiter = rate.NewMemoryLimiter(cfg.Rate.Resend.Limit, config.Dur(cfg.Rate.Resend.Window, 10*time.Minute))
		}
	}

	if err := metrics.Register(nil); err != nil {
		r.close()
		return nil, err
	}

	server := httpapi.NewServer(cfg.Server.Addr, httpapi.Deps{
		Auth: &httpapi.AuthHandlers{
			Accounts:  acc,
			Tokens:    tok,
			Mailer:    mailer,
			Sessions:  sessions,
			VerifyTTL: cfg.Auth.Verify.TTL,
			ResetTTL:  cfg.Auth.Reset.TTL,
		},
		Permissions:        &httpapi.PermissionHandlers{Engine: engine, Audit: r.audit},
		Branding:           &httpapi.BrandingHandlers{Resolver: resolver},
		Offices:            &httpapi.OfficeHandlers{Registry: registry},
		Sessions:           sessions,
		ForgotLimiter:      forgotLimiter,
		ResendLimiter:      resendLimiter,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	return &app{
		cfg:      cfg,
		repos:    r,
		accounts: acc,
		tokens:   tok,
		engine:   engine,
		resolver: resolver,
		registry: registry,
		server:   server,
	}, nil
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Arranca la API HTTP y el barrido periódico de tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.repos.close()
			defer func() { _ = logger.Sync() }()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return a.server.Run(ctx) })
			g.Go(func() error { return runPurgeSweeper(ctx, a.tokens, config.Dur(cfg.Tokens.PurgeInterval, time.Hour)) })
			return g.Wait()
		},
	}
}

// runPurgeSweeper elimina tokens caducados o usados a intervalos fijos.
func runPurgeSweeper(ctx context.Context, svc *tokens.Service, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := svc.PurgeExpired(ctx)
			if err != nil {
				logger.L().Warn("token purge failed", logger.Err(err))
				continue
			}
			if n > 0 {
				metrics.TokensPurged.Add(float64(n))
				logger.L().Info("tokens purged", logger.Count(n))
			}
		}
	}
}

func purgeTokensCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Elimina tokens caducados o ya usados (una pasada)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.repos.close()

			n, err := a.tokens.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("purged=%d\n", n)
			return nil
		},
	}
}

func seedCmd(cfgPath *string) *cobra.Command {
	var officeName, officeSlug, adminEmail, adminPass string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea la oficina de plataforma y la cuenta super_admin inicial",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if adminEmail == "" || adminPass == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.repos.close()
			ctx := cmd.Context()

			o, err := a.registry.GetBySlug(ctx, officeSlug)
			if err != nil {
				o, err = a.registry.Create(ctx, repository.CreateOfficeInput{
					Name: officeName,
					Slug: officeSlug,
				})
				if err != nil {
					return fmt.Errorf("crear oficina: %w", err)
				}
			}

			u, err := a.accounts.Register(ctx, accounts.RegisterInput{
				OfficeID: o.ID,
				Email:    adminEmail,
				Name:     "Administrador",
				Role:     string(authz.RoleSuperAdmin),
				Password: adminPass,
			})
			if err != nil {
				return fmt.Errorf("crear super_admin: %w", err)
			}

			fmt.Printf("office=%s user=%s\n", o.ID, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&officeName, "office-name", "Gestoría Online", "Nombre de la oficina de plataforma")
	cmd.Flags().StringVar(&officeSlug, "office-slug", "plataforma", "Slug de la oficina de plataforma")
	cmd.Flags().StringVar(&adminEmail, "email", "", "Email del super_admin inicial")
	cmd.Flags().StringVar(&adminPass, "password", "", "Password del super_admin inicial")
	return cmd
}
