package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Set bundles every repository the services depend on.
type Set struct {
	Tickets       TicketRepository
	Users         UserRepository
	Companies     CompanyRepository
	Machines      MachineRepository
	Solutions     SolutionRepository
	Notifications NotificationRepository
	Denylist      TokenDenylist
}

// NewPostgresSet wires the pgx repositories and the Redis denylist.
func NewPostgresSet(pool *pgxpool.Pool, redisClient *redis.Client) Set {
	return Set{
		Tickets:       NewTicketRepository(pool),
		Users:         NewUserRepository(pool),
		Companies:     NewCompanyRepository(pool),
		Machines:      NewMachineRepository(pool),
		Solutions:     NewSolutionRepository(pool),
		Notifications: NewNotificationRepository(pool),
		Denylist:      NewRedisTokenDenylist(redisClient),
	}
}
