package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

const ictDepartment = "Information and Communication Technology"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo accounts and default settings",
	Long:  `Creates the superuser and demo staff and user accounts. Existing accounts keep their password and get their role, name and department refreshed.`,
	RunE:  runSeed,
}

func seedAccounts() []service.SeedAccountInput {
	title := func(value string) *string { return &value }
	return []service.SeedAccountInput{
		{Email: domain.BootstrapSuperuserEmail, Password: "SuperUser123!", Name: "Super User", Department: ictDepartment, Title: title("System Superuser"), Role: domain.RoleSuperuser},
		{Email: "director@wajir.go.ke", Password: "Demo123!", Name: "Mohamed Shahid", Department: ictDepartment, Title: title("Director ICT"), Role: domain.RoleAdmin},
		{Email: "ali.salat@wajir.go.ke", Password: "Demo123!", Name: "Ali Salat", Department: ictDepartment, Title: title("Senior ICT Officer"), Role: domain.RoleAdmin},
		{Email: "ict.officer1@wajir.go.ke", Password: "Demo123!", Name: "Ahmed Hassan", Department: ictDepartment, Title: title("ICT Officer"), Role: domain.RoleICTOfficer},
		{Email: "user.demo@wajir.go.ke", Password: "Demo123!", Name: "Fatuma Mohamed", Department: "Finance and Economic Planning", Title: title("Accountant"), Role: domain.RoleUser},
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		logger.Warn("POSTGRES_DSN not set; seeded data will not outlive this process")
	}
	app, err := newApplication(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	for _, input := range seedAccounts() {
		profile, err := app.auth.SeedAccount(cmd.Context(), input)
		if err != nil {
			logger.Error("seed account failed", zap.String("email", input.Email), zap.Error(err))
			return err
		}
		logger.Info("seeded account", zap.String("email", profile.Email), zap.String("role", string(profile.Role)))
	}
	return app.settings.EnsureDefaults(cmd.Context())
}
