package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database/migrations"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// PostgresStore implements Store on top of PostgreSQL via database/sql.
// Transitions rely on WHERE-guarded updates; the database's row-level
// update semantics stand in for a per-row mutex.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// RunMigrations applies the embedded schema migrations.
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

// execCond runs a conditional update and reports whether a row matched.
func (s *PostgresStore) execCond(query string, args ...interface{}) (bool, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ================= Users =================

func (s *PostgresStore) CreateUser(u *models.User) error {
	query := `
        INSERT INTO users (email, name, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := s.db.QueryRow(query, u.Email, u.Name, u.Password, string(u.Role)).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Role = models.UserRole(role)
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(`
        SELECT id, email, name, password_hash, role, created_at, updated_at
        FROM users WHERE email = $1
    `, email))
}

func (s *PostgresStore) GetUserByID(id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(`
        SELECT id, email, name, password_hash, role, created_at, updated_at
        FROM users WHERE id = $1
    `, id))
}

// ================= Properties =================

func (s *PostgresStore) CreateProperty(p *models.Property) error {
	query := `
        INSERT INTO properties (landlord_id, title, address, monthly_rent, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := s.db.QueryRow(query, p.LandlordID, p.Title, p.Address, p.MonthlyRent).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProperty(id string) (*models.Property, error) {
	var p models.Property
	err := s.db.QueryRow(`
        SELECT id, landlord_id, title, address, monthly_rent, created_at, updated_at
        FROM properties WHERE id = $1
    `, id).Scan(&p.ID, &p.LandlordID, &p.Title, &p.Address, &p.MonthlyRent, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListPropertiesByLandlord(landlordID string) ([]models.Property, error) {
	rows, err := s.db.Query(`
        SELECT id, landlord_id, title, address, monthly_rent, created_at, updated_at
        FROM properties WHERE landlord_id = $1 ORDER BY created_at DESC
    `, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()
	var list []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.LandlordID, &p.Title, &p.Address, &p.MonthlyRent, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ================= Viewing slots =================

const slotColumns = `id, property_id, landlord_id, start_time, end_time, status, booked_by_tenant_id, created_at, updated_at`

func scanSlot(scan func(...interface{}) error) (*models.ViewingSlot, error) {
	var sl models.ViewingSlot
	var status string
	err := scan(&sl.ID, &sl.PropertyID, &sl.LandlordID, &sl.StartTime, &sl.EndTime,
		&status, &sl.BookedByTenantID, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sl.Status = models.SlotStatus(status)
	return &sl, nil
}

func (s *PostgresStore) CreateSlot(sl *models.ViewingSlot) error {
	query := `
        INSERT INTO viewing_slots (property_id, landlord_id, start_time, end_time, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, 'available', NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := s.db.QueryRow(query, sl.PropertyID, sl.LandlordID, sl.StartTime, sl.EndTime).
		Scan(&sl.ID, &sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	sl.Status = models.SlotAvailable
	return nil
}

func (s *PostgresStore) GetSlot(id string) (*models.ViewingSlot, error) {
	sl, err := scanSlot(s.db.QueryRow(`SELECT `+slotColumns+` FROM viewing_slots WHERE id = $1`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return sl, nil
}

func (s *PostgresStore) ListAvailableSlots(propertyID string, after time.Time) ([]models.ViewingSlot, error) {
	rows, err := s.db.Query(`
        SELECT `+slotColumns+` FROM viewing_slots
        WHERE property_id = $1 AND status = 'available' AND start_time > $2
        ORDER BY start_time ASC
    `, propertyID, after)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()
	var list []models.ViewingSlot
	for rows.Next() {
		sl, err := scanSlot(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *sl)
	}
	return list, rows.Err()
}

func (s *PostgresStore) BookSlot(slotID, tenantID string) (bool, error) {
	return s.execCond(`
        UPDATE viewing_slots
        SET status = 'booked', booked_by_tenant_id = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'available'
    `, slotID, tenantID)
}

func (s *PostgresStore) ReleaseSlot(slotID, tenantID string) (bool, error) {
	return s.execCond(`
        UPDATE viewing_slots
        SET status = 'available', booked_by_tenant_id = NULL, updated_at = NOW()
        WHERE id = $1 AND status = 'booked' AND booked_by_tenant_id = $2
    `, slotID, tenantID)
}

func (s *PostgresStore) RescheduleSlot(tenantID, oldSlotID, newSlotID string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	claim, err := tx.Exec(`
        UPDATE viewing_slots
        SET status = 'booked', booked_by_tenant_id = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'available'
    `, newSlotID, tenantID)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if n, _ := claim.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return false, nil
	}
	release, err := tx.Exec(`
        UPDATE viewing_slots
        SET status = 'available', booked_by_tenant_id = NULL, updated_at = NOW()
        WHERE id = $1 AND status = 'booked' AND booked_by_tenant_id = $2
    `, oldSlotID, tenantID)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if n, _ := release.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) FindActiveBooking(tenantID, propertyID string) (*models.ViewingSlot, error) {
	sl, err := scanSlot(s.db.QueryRow(`
        SELECT `+slotColumns+` FROM viewing_slots
        WHERE property_id = $1 AND booked_by_tenant_id = $2 AND status = 'booked'
        ORDER BY start_time ASC LIMIT 1
    `, propertyID, tenantID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return sl, nil
}

// ================= Viewings =================

const viewingColumns = `id, property_id, landlord_id, tenant_id, conversation_id, scheduled_date,
        status, completed_at, viewing_confirmed, application_sent, notes, created_at, updated_at`

func scanViewing(scan func(...interface{}) error) (*models.Viewing, error) {
	var v models.Viewing
	var status string
	err := scan(&v.ID, &v.PropertyID, &v.LandlordID, &v.TenantID, &v.ConversationID,
		&v.ScheduledDate, &status, &v.CompletedAt, &v.Confirmed, &v.ApplicationSent,
		&v.Notes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Status = models.ViewingStatus(status)
	return &v, nil
}

func (s *PostgresStore) CreateViewing(v *models.Viewing) error {
	query := `
        INSERT INTO viewings (property_id, landlord_id, tenant_id, conversation_id,
                              scheduled_date, status, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := s.db.QueryRow(query, v.PropertyID, v.LandlordID, v.TenantID, v.ConversationID,
		v.ScheduledDate, string(v.Status), v.Notes).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create viewing: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetViewing(id string) (*models.Viewing, error) {
	v, err := scanViewing(s.db.QueryRow(`SELECT `+viewingColumns+` FROM viewings WHERE id = $1`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get viewing: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) FindViewingForPair(propertyID, tenantID string) (*models.Viewing, error) {
	v, err := scanViewing(s.db.QueryRow(`
        SELECT `+viewingColumns+` FROM viewings
        WHERE property_id = $1 AND tenant_id = $2 AND status <> 'cancelled'
        ORDER BY created_at DESC LIMIT 1
    `, propertyID, tenantID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find viewing: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) listViewings(query, key string) ([]models.Viewing, error) {
	rows, err := s.db.Query(query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list viewings: %w", err)
	}
	defer rows.Close()
	var list []models.Viewing
	for rows.Next() {
		v, err := scanViewing(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

func (s *PostgresStore) ListViewingsByTenant(tenantID string) ([]models.Viewing, error) {
	return s.listViewings(`SELECT `+viewingColumns+` FROM viewings WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
}

func (s *PostgresStore) ListViewingsByLandlord(landlordID string) ([]models.Viewing, error) {
	return s.listViewings(`SELECT `+viewingColumns+` FROM viewings WHERE landlord_id = $1 ORDER BY created_at DESC`, landlordID)
}

func (s *PostgresStore) SetViewingScheduled(id string, date time.Time) (bool, error) {
	return s.execCond(`
        UPDATE viewings SET status = 'scheduled', scheduled_date = $2, updated_at = NOW()
        WHERE id = $1 AND status IN ('requested', 'scheduled')
    `, id, date)
}

func (s *PostgresStore) CompleteViewing(id string, at time.Time) (bool, error) {
	return s.execCond(`
        UPDATE viewings SET status = 'completed', completed_at = $2, updated_at = NOW()
        WHERE id = $1 AND status IN ('requested', 'scheduled')
    `, id, at)
}

func (s *PostgresStore) ConfirmViewing(id string) (bool, error) {
	return s.execCond(`
        UPDATE viewings SET viewing_confirmed = TRUE, updated_at = NOW()
        WHERE id = $1 AND status = 'completed'
    `, id)
}

func (s *PostgresStore) MarkApplicationSent(id string) (bool, error) {
	return s.execCond(`
        UPDATE viewings SET application_sent = TRUE, updated_at = NOW()
        WHERE id = $1 AND viewing_confirmed = TRUE
    `, id)
}

func (s *PostgresStore) CancelViewing(id, tenantID string) (bool, error) {
	return s.execCond(`
        UPDATE viewings SET status = 'cancelled', updated_at = NOW()
        WHERE id = $1 AND tenant_id = $2 AND status IN ('requested', 'scheduled')
    `, id, tenantID)
}

// ================= Application invites =================

const inviteColumns = `id, token, property_id, landlord_id, tenant_id, conversation_id,
        status, created_at, expires_at, used_at`

func scanInvite(scan func(...interface{}) error) (*models.ApplicationInvite, error) {
	var inv models.ApplicationInvite
	var status string
	err := scan(&inv.ID, &inv.Token, &inv.PropertyID, &inv.LandlordID, &inv.TenantID,
		&inv.ConversationID, &status, &inv.CreatedAt, &inv.ExpiresAt, &inv.UsedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InviteStatus(status)
	return &inv, nil
}

func (s *PostgresStore) CreateInvite(inv *models.ApplicationInvite) error {
	query := `
        INSERT INTO application_invites (token, property_id, landlord_id, tenant_id,
                                         conversation_id, status, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, 'invited', NOW(), $6)
        RETURNING id, created_at
    `
	err := s.db.QueryRow(query, inv.Token, inv.PropertyID, inv.LandlordID, inv.TenantID,
		inv.ConversationID, inv.ExpiresAt).
		Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}
	inv.Status = models.InviteInvited
	return nil
}

func (s *PostgresStore) GetInviteByToken(token string) (*models.ApplicationInvite, error) {
	inv, err := scanInvite(s.db.QueryRow(`SELECT `+inviteColumns+` FROM application_invites WHERE token = $1`, token).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) GetInvite(id string) (*models.ApplicationInvite, error) {
	inv, err := scanInvite(s.db.QueryRow(`SELECT `+inviteColumns+` FROM application_invites WHERE id = $1`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) FindLiveInvite(propertyID, tenantID string, now time.Time) (*models.ApplicationInvite, error) {
	inv, err := scanInvite(s.db.QueryRow(`
        SELECT `+inviteColumns+` FROM application_invites
        WHERE property_id = $1 AND tenant_id = $2 AND status = 'invited' AND expires_at > $3
        ORDER BY created_at DESC LIMIT 1
    `, propertyID, tenantID, now).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) ExpireLiveInvites(propertyID, tenantID string) error {
	_, err := s.db.Exec(`
        UPDATE application_invites SET status = 'expired'
        WHERE property_id = $1 AND tenant_id = $2 AND status = 'invited'
    `, propertyID, tenantID)
	return err
}

func (s *PostgresStore) ConsumeInvite(id string, at time.Time) (bool, error) {
	return s.execCond(`
        UPDATE application_invites SET status = 'used', used_at = $2
        WHERE id = $1 AND status = 'invited'
    `, id, at)
}

// ================= Applications =================

const applicationColumns = `id, tenant_id, landlord_id, property_id, status, created_at, updated_at`

func scanApplication(scan func(...interface{}) error) (*models.Application, error) {
	var a models.Application
	var status string
	err := scan(&a.ID, &a.TenantID, &a.LandlordID, &a.PropertyID, &status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	return &a, nil
}

func (s *PostgresStore) GetApplication(id string) (*models.Application, error) {
	a, err := scanApplication(s.db.QueryRow(`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindApplicationForPair(tenantID, propertyID string) (*models.Application, error) {
	a, err := scanApplication(s.db.QueryRow(`
        SELECT `+applicationColumns+` FROM applications
        WHERE tenant_id = $1 AND property_id = $2
    `, tenantID, propertyID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) listApplications(query, key string) ([]models.Application, error) {
	rows, err := s.db.Query(query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()
	var list []models.Application
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (s *PostgresStore) ListApplicationsByLandlord(landlordID string) ([]models.Application, error) {
	return s.listApplications(`SELECT `+applicationColumns+` FROM applications WHERE landlord_id = $1 ORDER BY created_at DESC`, landlordID)
}

func (s *PostgresStore) ListApplicationsByTenant(tenantID string) ([]models.Application, error) {
	return s.listApplications(`SELECT `+applicationColumns+` FROM applications WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
}

func (s *PostgresStore) ReplaceApplication(app *models.Application) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM applications WHERE tenant_id = $1 AND property_id = $2`,
		app.TenantID, app.PropertyID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete prior application: %w", err)
	}
	err = tx.QueryRow(`
        INSERT INTO applications (tenant_id, landlord_id, property_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `, app.TenantID, app.LandlordID, app.PropertyID, string(app.Status)).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return tx.Commit()
}

func (s *PostgresStore) AdvanceApplication(id string, from, to models.ApplicationStatus) (bool, error) {
	return s.execCond(`
        UPDATE applications SET status = $3, updated_at = NOW()
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
}

func (s *PostgresStore) DecideApplication(id, landlordID string, to models.ApplicationStatus) (bool, error) {
	return s.execCond(`
        UPDATE applications SET status = $3, updated_at = NOW()
        WHERE id = $1 AND landlord_id = $2 AND status NOT IN ('accepted', 'declined')
    `, id, landlordID, string(to))
}

// ================= Screening =================

func (s *PostgresStore) UpsertScreeningProfile(p *models.ScreeningProfile) error {
	_, err := s.db.Exec(`
        INSERT INTO screening_profiles (tenant_id, employer, annual_income, reference_name,
                                        reference_email, is_tenant_screened, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (tenant_id) DO UPDATE SET
            employer = EXCLUDED.employer,
            annual_income = EXCLUDED.annual_income,
            reference_name = EXCLUDED.reference_name,
            reference_email = EXCLUDED.reference_email,
            is_tenant_screened = EXCLUDED.is_tenant_screened,
            updated_at = NOW()
    `, p.TenantID, p.Employer, p.AnnualIncome, p.ReferenceName, p.ReferenceEmail, p.IsTenantScreened)
	if err != nil {
		return fmt.Errorf("failed to upsert screening profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetScreeningProfile(tenantID string) (*models.ScreeningProfile, error) {
	var p models.ScreeningProfile
	err := s.db.QueryRow(`
        SELECT tenant_id, employer, annual_income, reference_name, reference_email,
               is_tenant_screened, updated_at
        FROM screening_profiles WHERE tenant_id = $1
    `, tenantID).Scan(&p.TenantID, &p.Employer, &p.AnnualIncome, &p.ReferenceName,
		&p.ReferenceEmail, &p.IsTenantScreened, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get screening profile: %w", err)
	}
	return &p, nil
}

// ================= Tenancies =================

const tenancyColumns = `id, property_id, landlord_id, tenant_id, monthly_rent, security_deposit,
        start_date, end_date, lease_status, lease_document_path, tenant_signed_at,
        landlord_signed_at, custom_clauses, created_at, updated_at`

func scanTenancy(scan func(...interface{}) error) (*models.Tenancy, error) {
	var t models.Tenancy
	var status string
	var clauses []byte
	err := scan(&t.ID, &t.PropertyID, &t.LandlordID, &t.TenantID, &t.MonthlyRent,
		&t.SecurityDeposit, &t.StartDate, &t.EndDate, &status, &t.LeaseDocumentPath,
		&t.TenantSignedAt, &t.LandlordSignedAt, &clauses, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.LeaseStatus = models.LeaseStatus(status)
	if len(clauses) > 0 {
		if err := json.Unmarshal(clauses, &t.CustomClauses); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lease clauses: %w", err)
		}
	}
	return &t, nil
}

func (s *PostgresStore) CreateTenancy(t *models.Tenancy) error {
	clauses, err := json.Marshal(t.CustomClauses)
	if err != nil {
		return fmt.Errorf("failed to marshal lease clauses: %w", err)
	}
	if t.CustomClauses == nil {
		clauses = []byte(`[]`)
	}
	query := `
        INSERT INTO tenancies (property_id, landlord_id, tenant_id, monthly_rent,
                               security_deposit, start_date, end_date, lease_status,
                               custom_clauses, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 'draft', $8, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err = s.db.QueryRow(query, t.PropertyID, t.LandlordID, t.TenantID, t.MonthlyRent,
		t.SecurityDeposit, t.StartDate, t.EndDate, clauses).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tenancy: %w", err)
	}
	t.LeaseStatus = models.LeaseDraft
	return nil
}

func (s *PostgresStore) GetTenancy(id string) (*models.Tenancy, error) {
	t, err := scanTenancy(s.db.QueryRow(`SELECT `+tenancyColumns+` FROM tenancies WHERE id = $1`, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenancy: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) FindTenancyForTriple(landlordID, tenantID, propertyID string) (*models.Tenancy, error) {
	t, err := scanTenancy(s.db.QueryRow(`
        SELECT `+tenancyColumns+` FROM tenancies
        WHERE landlord_id = $1 AND tenant_id = $2 AND property_id = $3
    `, landlordID, tenantID, propertyID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find tenancy: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) listTenancies(query, key string) ([]models.Tenancy, error) {
	rows, err := s.db.Query(query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenancies: %w", err)
	}
	defer rows.Close()
	var list []models.Tenancy
	for rows.Next() {
		t, err := scanTenancy(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (s *PostgresStore) ListTenanciesByLandlord(landlordID string) ([]models.Tenancy, error) {
	return s.listTenancies(`SELECT `+tenancyColumns+` FROM tenancies WHERE landlord_id = $1 ORDER BY created_at DESC`, landlordID)
}

func (s *PostgresStore) ListTenanciesByTenant(tenantID string) ([]models.Tenancy, error) {
	return s.listTenancies(`SELECT `+tenancyColumns+` FROM tenancies WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
}

func (s *PostgresStore) AttachLeaseDocument(id, path string) (bool, error) {
	return s.execCond(`
        UPDATE tenancies
        SET lease_document_path = $2, lease_status = 'awaiting_tenant_signature', updated_at = NOW()
        WHERE id = $1 AND lease_status = 'draft'
    `, id, path)
}

func (s *PostgresStore) TenantSignLease(id, tenantID string, at time.Time) (bool, error) {
	return s.execCond(`
        UPDATE tenancies
        SET tenant_signed_at = $3, lease_status = 'awaiting_landlord_signature', updated_at = NOW()
        WHERE id = $1 AND tenant_id = $2 AND lease_status = 'awaiting_tenant_signature'
    `, id, tenantID, at)
}

func (s *PostgresStore) LandlordSignLease(id, landlordID string, at time.Time) (bool, error) {
	return s.execCond(`
        UPDATE tenancies
        SET landlord_signed_at = $3, lease_status = 'completed', updated_at = NOW()
        WHERE id = $1 AND landlord_id = $2 AND lease_status = 'awaiting_landlord_signature'
    `, id, landlordID, at)
}

// ================= Payments =================

func (s *PostgresStore) CreatePaymentRecord(p *models.PaymentRecord) error {
	query := `
        INSERT INTO payment_records (tenancy_id, type, reference, amount_cents, checkout_url, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	err := s.db.QueryRow(query, p.TenancyID, string(p.Type), p.Reference, p.AmountCents, p.CheckoutURL).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPaymentByReference(reference string) (*models.PaymentRecord, error) {
	var p models.PaymentRecord
	var ptype string
	err := s.db.QueryRow(`
        SELECT id, tenancy_id, type, reference, amount_cents, checkout_url, paid_at, created_at
        FROM payment_records WHERE reference = $1
    `, reference).Scan(&p.ID, &p.TenancyID, &ptype, &p.Reference, &p.AmountCents,
		&p.CheckoutURL, &p.PaidAt, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment record: %w", err)
	}
	p.Type = models.PaymentType(ptype)
	return &p, nil
}

func (s *PostgresStore) MarkPaymentPaid(reference string, at time.Time) (bool, error) {
	return s.execCond(`
        UPDATE payment_records SET paid_at = $2
        WHERE reference = $1 AND paid_at IS NULL
    `, reference, at)
}

// ================= Presence =================

func (s *PostgresStore) UpsertHeartbeat(userID string, at time.Time) error {
	_, err := s.db.Exec(`
        INSERT INTO heartbeats (user_id, last_seen) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET last_seen = EXCLUDED.last_seen
    `, userID, at)
	return err
}

func (s *PostgresStore) GetHeartbeat(userID string) (*models.Heartbeat, error) {
	var h models.Heartbeat
	err := s.db.QueryRow(`SELECT user_id, last_seen FROM heartbeats WHERE user_id = $1`, userID).
		Scan(&h.UserID, &h.LastSeen)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get heartbeat: %w", err)
	}
	return &h, nil
}

func (s *PostgresStore) HealthCheck() error { return s.db.Ping() }

func (s *PostgresStore) Close() error { return s.db.Close() }
