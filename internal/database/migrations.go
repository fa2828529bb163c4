package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createExtensions,
		createEventsTable,
		createTicketTypesTable,
		createAttendeesTable,
		createAttendancesTable,
		createImportQueueTable,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createExtensions = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS eventos (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    nombre VARCHAR(500) NOT NULL,
    genero_musical VARCHAR(100),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createTicketTypesTable = `
CREATE TABLE IF NOT EXISTS tipos_ticket (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    nombre VARCHAR(255) NOT NULL,
    evento_id UUID NOT NULL REFERENCES eventos(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createAttendeesTable = `
CREATE TABLE IF NOT EXISTS asistentes (
    id UUID PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    nombre VARCHAR(255) NOT NULL,
    apellido VARCHAR(255) NOT NULL,
    telefono VARCHAR(50),
    documento_id VARCHAR(50),
    genero VARCHAR(50),
    fecha_nacimiento VARCHAR(50),
    direccion TEXT,
    seccion VARCHAR(100),
    canal_venta VARCHAR(100),
    fecha_compra VARCHAR(50),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createAttendancesTable = `
CREATE TABLE IF NOT EXISTS asistencias (
    id UUID PRIMARY KEY,
    asistente_id UUID NOT NULL REFERENCES asistentes(id),
    evento_id UUID NOT NULL REFERENCES eventos(id),
    tipo_ticket_id UUID NOT NULL REFERENCES tipos_ticket(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (asistente_id, evento_id, tipo_ticket_id)
);`

const createImportQueueTable = `
CREATE TABLE IF NOT EXISTS importaciones_queue (
    id UUID PRIMARY KEY,
    archivo_nombre VARCHAR(500) NOT NULL,
    archivo_key VARCHAR(1000) NOT NULL,
    archivo_url TEXT NOT NULL,
    archivo_size BIGINT NOT NULL DEFAULT 0,
    estado VARCHAR(50) NOT NULL DEFAULT 'pendiente',
    chunk_numero INTEGER NOT NULL DEFAULT 1,
    chunk_total INTEGER NOT NULL DEFAULT 1,
    registros_inicio INTEGER NOT NULL DEFAULT 0,
    registros_fin INTEGER NOT NULL DEFAULT 0,
    registros_procesados INTEGER NOT NULL DEFAULT 0,
    registros_nuevos INTEGER NOT NULL DEFAULT 0,
    registros_actualizados INTEGER NOT NULL DEFAULT 0,
    registros_con_errores INTEGER NOT NULL DEFAULT 0,
    errores JSONB NOT NULL DEFAULT '[]'::jsonb,
    campos_detectados JSONB NOT NULL DEFAULT '{}'::jsonb,
    genero_musical_detectado VARCHAR(100),
    progreso_porcentaje INTEGER NOT NULL DEFAULT 0,
    tiempo_inicio TIMESTAMP,
    tiempo_fin TIMESTAMP,
    duracion_segundos DOUBLE PRECISION,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`
