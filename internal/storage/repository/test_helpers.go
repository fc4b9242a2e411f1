package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateMember создает тестового участника и возвращает его ID и UID
func (f *TestDataFactory) CreateMember(t *testing.T, username, email, passwordHash, role string) (int, string) {
	var id int
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO members (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4) RETURNING id, uid`,
		username, email, passwordHash, role).Scan(&id, &uid)
	require.NoError(t, err)
	return id, uid
}

// CreateMemberWithMembership создает участника с заполненной карточкой абонемента
func (f *TestDataFactory) CreateMemberWithMembership(t *testing.T, username, email, passwordHash, role string,
	planID int, startDate, endDate time.Time) (int, string) {
	var id int
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO members
		(username, email, password_hash, role, selected_plan_id, membership_start_date, membership_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, uid`,
		username, email, passwordHash, role, planID, startDate, endDate).Scan(&id, &uid)
	require.NoError(t, err)
	return id, uid
}

// CreatePlan создает тестовый тарифный план
func (f *TestDataFactory) CreatePlan(t *testing.T, name string, price float64, durationDays int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO plans (name, price, duration_days)
		VALUES ($1, $2, $3) RETURNING id`,
		name, price, durationDays).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePayment создает тестовый платеж с указанным статусом
func (f *TestDataFactory) CreatePayment(t *testing.T, memberID int, planID *int, amount float64,
	paidAt time.Time, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO payments (member_id, plan_id, amount, paid_at, status, receipt_reference)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		memberID, planID, amount, paidAt, status, "receipt-test").Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateAttendance создает тестовую отметку посещения
func (f *TestDataFactory) CreateAttendance(t *testing.T, memberID int, checkedInAt time.Time) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO attendance (member_id, checked_in_at, token)
		VALUES ($1, $2, $3) RETURNING id`,
		memberID, checkedInAt, "token-test").Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyPaymentStatus проверяет статус платежа в БД
func (v *TestVerification) VerifyPaymentStatus(t *testing.T, paymentID int, expectedStatus string) {
	var status string
	err := v.storage.DB.QueryRow("SELECT status FROM payments WHERE id = $1", paymentID).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, status)
}

// VerifyMembershipCard проверяет карточку абонемента участника
func (v *TestVerification) VerifyMembershipCard(t *testing.T, memberID, expectedPlanID int, expectedEndDate time.Time) {
	var planID int
	var endDate time.Time
	err := v.storage.DB.QueryRow(`SELECT selected_plan_id, membership_end_date
		FROM members WHERE id = $1`, memberID).Scan(&planID, &endDate)
	require.NoError(t, err)
	require.Equal(t, expectedPlanID, planID)
	require.Equal(t, expectedEndDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort(nat.Port("5432/tcp")),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	// Добавляем задержку для полной инициализации PostgreSQL
	time.Sleep(3 * time.Second)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			// Проверяем, что подключение действительно работает
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS attendance CASCADE;
        DROP TABLE IF EXISTS payments CASCADE;
        DROP TABLE IF EXISTS members CASCADE;
        DROP TABLE IF EXISTS plans CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE plans (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price NUMERIC(10, 2) NOT NULL,
            duration_days INTEGER NOT NULL CHECK (duration_days >= 1)
        );

        CREATE TABLE members (
            id SERIAL PRIMARY KEY,
            uid UUID NOT NULL DEFAULT gen_random_uuid() UNIQUE,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'member',
            selected_plan_id INTEGER REFERENCES plans (id),
            membership_start_date DATE,
            membership_end_date DATE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE payments (
            id SERIAL PRIMARY KEY,
            member_id INTEGER NOT NULL REFERENCES members (id),
            plan_id INTEGER REFERENCES plans (id),
            amount NUMERIC(10, 2) NOT NULL,
            paid_at TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            receipt_reference TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE attendance (
            id SERIAL PRIMARY KEY,
            member_id INTEGER NOT NULL REFERENCES members (id),
            checked_in_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            token TEXT NOT NULL DEFAULT ''
        );
    `)
	require.NoError(t, err, "Failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
