package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/app"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
)

// adminSeed describes the staff company and its first administrator.
type adminSeed struct {
	company   string
	country   string
	firstName string
	lastName  string
	email     string
	password  string
	phone     string
}

func (s *adminSeed) bindFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVar(&s.company, "company", "Viscon", "Name of the staff company")
	cmd.Flags().StringVar(&s.country, "country", "Netherlands", "Country of the staff company")
	cmd.Flags().StringVar(&s.firstName, "first-name", "Admin", "First name of the administrator")
	cmd.Flags().StringVar(&s.lastName, "last-name", "Viscon", "Last name of the administrator")
	cmd.Flags().StringVar(&s.email, "admin-email", "", "Email of the administrator")
	cmd.Flags().StringVar(&s.password, "admin-password", "", "Password of the administrator")
	cmd.Flags().StringVar(&s.phone, "phone", "", "Phone number of the administrator")
	if required {
		_ = cmd.MarkFlagRequired("admin-email")
		_ = cmd.MarkFlagRequired("admin-password")
	}
}

func (s *adminSeed) run(ctx context.Context, container *app.Container) error {
	if len(s.password) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}

	if existing, err := container.Repos.Users.GetByEmail(ctx, s.email); err == nil && existing != nil {
		container.Logger.Info("admin already exists", zap.String("email", s.email))
		return nil
	}

	company := &domain.Company{Name: s.company, Country: s.country, IsActive: true}
	if err := container.Repos.Companies.Create(ctx, company); err != nil {
		return fmt.Errorf("create company: %w", err)
	}

	user, err := container.Auth.Bootstrap(ctx, service.RegisterInput{
		FirstName:   s.firstName,
		LastName:    s.lastName,
		Email:       s.email,
		Password:    s.password,
		PhoneNumber: s.phone,
		Role:        domain.RoleVisconAdmin,
		CompanyID:   company.ID,
	})
	if err != nil {
		return err
	}
	container.Logger.Info("admin created", zap.String("user_id", user.ID), zap.String("company_id", company.ID))
	return nil
}

func newBootstrapCommand() *cobra.Command {
	var seed adminSeed

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the staff company and its first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.pg.PoolHandle() == nil {
				return errors.New("POSTGRES_DSN is required for bootstrap; use serve --admin-email for in-memory runs")
			}
			repos, _ := rt.repositories(ctx)
			container, err := app.NewContainer(rt.cfg, repos, rt.logger, app.Options{})
			if err != nil {
				return err
			}
			return seed.run(ctx, container)
		},
	}
	seed.bindFlags(cmd, true)
	return cmd
}
