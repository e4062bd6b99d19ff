package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/campus-portal-api/internal/config"
	"github.com/campus-portal-api/internal/infrastructure/dynamo"
	"github.com/campus-portal-api/internal/infrastructure/memstore"
	"github.com/campus-portal-api/internal/infrastructure/mongostore"
	"github.com/campus-portal-api/internal/infrastructure/pgstore"
	"github.com/campus-portal-api/internal/infrastructure/redisstore"
	"github.com/campus-portal-api/internal/infrastructure/scheduler"
	transporthttp "github.com/campus-portal-api/internal/transport/http"
)

// newOTPStore selects the OTP backend named by cfg.OTP.Store. Backends
// without native expiry get a sweep job on sched. The returned func
// releases the backend's connections.
func newOTPStore(ctx context.Context, cfg *config.Config, dynamoClient *dynamodb.Client, sched *scheduler.Scheduler) (transporthttp.OTPStore, func(), error) {
	noop := func() {}
	switch cfg.OTP.Store {
	case "", "dynamo":
		return dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs), noop, nil

	case "redis":
		client, err := redisstore.NewClient(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return redisstore.NewOTPStore(client), func() { _ = client.Close() }, nil

	case "postgres":
		db, err := pgstore.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := pgstore.Migrate(db); err != nil {
			return nil, noop, err
		}
		store := pgstore.NewOTPStore(db)
		if err := sched.AddSweep(cfg.OTP.SweepSchedule, "postgres", store); err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store, closeDB, nil

	case "mongo":
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		store := mongostore.NewOTPStore(client.Database(cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, noop, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	case "memory":
		store := memstore.NewOTPStore()
		if err := sched.AddSweep(cfg.OTP.SweepSchedule, "memory", store); err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown OTP_STORE %q", cfg.OTP.Store)
}
