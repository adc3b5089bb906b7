package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDB_InsertDevicePropertyIfAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	d := &DB{conn: db}
	ctx := context.Background()

	tests := []struct {
		name        string
		setupMock   func()
		wantCreated bool
		wantErr     bool
	}{
		{
			name: "new property created",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO device_properties").
					WithArgs("factory-1", "device-1", "temperature", "float").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantCreated: true,
		},
		{
			name: "already exists",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO device_properties").
					WithArgs("factory-1", "device-1", "temperature", "float").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantCreated: false,
		},
		{
			name: "database error",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO device_properties").
					WithArgs("factory-1", "device-1", "temperature", "float").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			created, err := d.InsertDevicePropertyIfAbsent(ctx, "factory-1", "device-1", "temperature", "float")
			if (err != nil) != tt.wantErr {
				t.Fatalf("InsertDevicePropertyIfAbsent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && created != tt.wantCreated {
				t.Errorf("created = %v, want %v", created, tt.wantCreated)
			}
		})
	}
}

func TestDB_ListDevicePropertyNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	d := &DB{conn: db}

	t.Run("known properties", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"property_name"}).
			AddRow("humidity").
			AddRow("temperature")
		mock.ExpectQuery("SELECT property_name FROM device_properties").
			WithArgs("factory-1", "device-1").
			WillReturnRows(rows)

		names, err := d.ListDevicePropertyNames(context.Background(), "factory-1", "device-1")
		if err != nil {
			t.Fatalf("ListDevicePropertyNames() error = %v", err)
		}
		if len(names) != 2 || names[0] != "humidity" || names[1] != "temperature" {
			t.Errorf("names = %v, want [humidity temperature]", names)
		}
	})

	t.Run("unknown device", func(t *testing.T) {
		mock.ExpectQuery("SELECT property_name FROM device_properties").
			WithArgs("factory-1", "device-9").
			WillReturnRows(sqlmock.NewRows([]string{"property_name"}))

		names, err := d.ListDevicePropertyNames(context.Background(), "factory-1", "device-9")
		if err != nil {
			t.Fatalf("ListDevicePropertyNames() error = %v", err)
		}
		if len(names) != 0 {
			t.Errorf("names = %v, want empty", names)
		}
	})
}

func TestDB_TouchDeviceLastSeen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	defer db.Close()

	d := &DB{conn: db}
	seenAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("updates last seen", func(t *testing.T) {
		mock.ExpectExec("UPDATE devices").
			WithArgs("factory-1", "device-1", seenAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := d.TouchDeviceLastSeen(context.Background(), "factory-1", "device-1", seenAt); err != nil {
			t.Fatalf("TouchDeviceLastSeen() error = %v", err)
		}
	})

	t.Run("unknown device is not an error", func(t *testing.T) {
		mock.ExpectExec("UPDATE devices").
			WithArgs("factory-1", "device-9", seenAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		if err := d.TouchDeviceLastSeen(context.Background(), "factory-1", "device-9", seenAt); err != nil {
			t.Fatalf("TouchDeviceLastSeen() error = %v, want nil for zero rows", err)
		}
	})
}
