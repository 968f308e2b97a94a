package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// SchemaQuery creates the ledger tables. Sub-balance columns are nullable on
// purpose: rows written before the split existed carry NULLs, and clients
// derive the 72/28 split for those.
const SchemaQuery = `
	CREATE EXTENSION IF NOT EXISTS "pgcrypto";

	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT UNIQUE NOT NULL,
		username TEXT UNIQUE NOT NULL,
		display_name TEXT,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS wallets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		actual_balance NUMERIC(14,2),
		tax_credit_balance NUMERIC(14,2),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS wallet_transactions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		type TEXT NOT NULL CHECK (type IN ('deposit','withdrawal','contest_entry','prize_won','refund')),
		status TEXT NOT NULL DEFAULT 'completed' CHECK (status IN ('pending','completed','failed')),
		payment_method TEXT,
		description TEXT,
		tax_credit_used NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_credit_given NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS tax_credit_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		deposit_amount NUMERIC(14,2) NOT NULL,
		tax_amount NUMERIC(14,2) NOT NULL,
		tax_credit_given NUMERIC(14,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','used','expired')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		used_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS contests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		entry_fee NUMERIC(14,2) NOT NULL CHECK (entry_fee > 0),
		status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','closed')),
		starts_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS contest_participants (
		contest_id TEXT NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		entry_fee NUMERIC(14,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (contest_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_user_created
		ON wallet_transactions(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_tax_credit_logs_user
		ON tax_credit_logs(user_id);
`

// ProceduresQuery installs the atomic ledger procedures. These are the only
// writers of wallet rows; the API never composes check-then-write from
// separate statements.
const ProceduresQuery = `
	CREATE OR REPLACE FUNCTION wallet_sync_balance(p_user_id UUID) RETURNS void AS $$
	DECLARE
		v_computed NUMERIC(14,2);
	BEGIN
		SELECT COALESCE(SUM(
			CASE WHEN type IN ('deposit','prize_won','refund') THEN amount ELSE -amount END
		), 0)
		INTO v_computed
		FROM wallet_transactions
		WHERE user_id = p_user_id AND status = 'completed';

		-- A correction invalidates the stored split; clearing the
		-- sub-balances makes readers re-derive it from the new total.
		UPDATE wallets
		SET balance = v_computed,
		    actual_balance = NULL,
		    tax_credit_balance = NULL,
		    updated_at = now()
		WHERE user_id = p_user_id AND balance <> v_computed;
	END;
	$$ LANGUAGE plpgsql;

	CREATE OR REPLACE FUNCTION wallet_fetch(p_user_id UUID) RETURNS SETOF wallets AS $$
		SELECT * FROM wallets WHERE user_id = p_user_id;
	$$ LANGUAGE sql STABLE;

	CREATE OR REPLACE FUNCTION wallet_deposit(
		p_user_id UUID, p_amount NUMERIC, p_method TEXT, p_description TEXT
	) RETURNS UUID AS $$
	DECLARE
		v_tx UUID;
		v_credit NUMERIC(14,2);
	BEGIN
		IF p_amount <= 0 THEN
			RAISE EXCEPTION 'deposit amount must be positive';
		END IF;

		v_credit := round(p_amount * 0.28, 2);

		INSERT INTO wallets (user_id, balance) VALUES (p_user_id, 0)
		ON CONFLICT (user_id) DO NOTHING;

		UPDATE wallets
		SET balance = balance + p_amount,
		    actual_balance = COALESCE(actual_balance, 0) + (p_amount - v_credit),
		    tax_credit_balance = COALESCE(tax_credit_balance, 0) + v_credit,
		    updated_at = now()
		WHERE user_id = p_user_id;

		INSERT INTO wallet_transactions
			(user_id, amount, type, status, payment_method, description, tax_credit_used, tax_credit_given)
		VALUES
			(p_user_id, p_amount, 'deposit', 'completed', p_method, p_description, 0, v_credit)
		RETURNING id INTO v_tx;

		INSERT INTO tax_credit_logs (user_id, deposit_amount, tax_amount, tax_credit_given, status)
		VALUES (p_user_id, p_amount, v_credit, v_credit, 'active');

		RETURN v_tx;
	END;
	$$ LANGUAGE plpgsql;

	CREATE OR REPLACE FUNCTION wallet_withdraw(
		p_user_id UUID, p_amount NUMERIC, p_method TEXT, p_description TEXT
	) RETURNS UUID AS $$
	DECLARE
		v_tx UUID;
		v_balance NUMERIC(14,2);
		v_actual NUMERIC(14,2);
	BEGIN
		SELECT balance, COALESCE(actual_balance, round(balance * 0.72, 2))
		INTO v_balance, v_actual
		FROM wallets WHERE user_id = p_user_id
		FOR UPDATE;

		IF NOT FOUND THEN
			RAISE EXCEPTION 'wallet not found' USING ERRCODE = 'WD002';
		END IF;

		-- tax credit is not withdrawable; only the real-money portion pays out
		IF v_actual < p_amount THEN
			RAISE EXCEPTION 'insufficient withdrawable balance' USING ERRCODE = 'WD001';
		END IF;

		UPDATE wallets
		SET balance = balance - p_amount,
		    actual_balance = v_actual - p_amount,
		    updated_at = now()
		WHERE user_id = p_user_id;

		INSERT INTO wallet_transactions
			(user_id, amount, type, status, payment_method, description, tax_credit_used, tax_credit_given)
		VALUES
			(p_user_id, p_amount, 'withdrawal', 'completed', p_method, p_description, 0, 0)
		RETURNING id INTO v_tx;

		RETURN v_tx;
	END;
	$$ LANGUAGE plpgsql;

	CREATE OR REPLACE FUNCTION contest_register(
		p_user_id UUID, p_contest_id TEXT, p_fee NUMERIC
	) RETURNS TEXT AS $$
	DECLARE
		v_contest_status TEXT;
		v_balance NUMERIC(14,2);
		v_actual NUMERIC(14,2);
		v_credit NUMERIC(14,2);
		v_from_credit NUMERIC(14,2);
	BEGIN
		SELECT status INTO v_contest_status FROM contests WHERE id = p_contest_id;
		IF NOT FOUND OR v_contest_status <> 'open' THEN
			RETURN 'CONTEST_NOT_FOUND_OR_CLOSED';
		END IF;

		SELECT balance,
		       COALESCE(actual_balance, round(balance * 0.72, 2)),
		       COALESCE(tax_credit_balance, round(balance * 0.28, 2))
		INTO v_balance, v_actual, v_credit
		FROM wallets WHERE user_id = p_user_id
		FOR UPDATE;

		IF NOT FOUND THEN
			RETURN 'WALLET_NOT_FOUND';
		END IF;

		IF EXISTS (
			SELECT 1 FROM contest_participants
			WHERE contest_id = p_contest_id AND user_id = p_user_id
		) THEN
			RETURN 'ALREADY_REGISTERED';
		END IF;

		IF v_balance < p_fee THEN
			RETURN 'INSUFFICIENT_BALANCE';
		END IF;

		-- entry fees consume tax credit before real money
		v_from_credit := LEAST(v_credit, p_fee);

		UPDATE wallets
		SET balance = v_balance - p_fee,
		    tax_credit_balance = v_credit - v_from_credit,
		    actual_balance = v_actual - (p_fee - v_from_credit),
		    updated_at = now()
		WHERE user_id = p_user_id;

		INSERT INTO contest_participants (contest_id, user_id, entry_fee)
		VALUES (p_contest_id, p_user_id, p_fee);

		INSERT INTO wallet_transactions
			(user_id, amount, type, status, description, tax_credit_used, tax_credit_given)
		VALUES
			(p_user_id, p_fee, 'contest_entry', 'completed',
			 'Entry fee for contest ' || p_contest_id, v_from_credit, 0);

		RETURN 'SUCCESS';
	END;
	$$ LANGUAGE plpgsql;
`

// Migrate installs the schema and the ledger procedures.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(SchemaQuery); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(ProceduresQuery); err != nil {
		return fmt.Errorf("install procedures: %w", err)
	}
	log.Info().Msg("Database schema up to date")
	return nil
}
