package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository"
)

var ErrDeviceNotFound = errors.New("device not found")

const selector = string(`
select id, name, uniqueid, disabled from devices
`)

func Create(ctx context.Context, conn repository.Querier, device *model.Device) error {
	row := conn.QueryRow(ctx, `
	insert into devices (name, uniqueid, disabled)
	values ($1,$2,$3)
	returning id
	`, device.Name, device.UniqueID, device.Disabled)
	return row.Scan(&device.ID)
}

// LoadEnabled returns all devices not marked disabled, ordered by name.
func LoadEnabled(ctx context.Context, conn repository.Querier) ([]*model.Device, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where disabled = false order by name", selector))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows[*model.Device](rows,
		func(row pgx.CollectableRow) (*model.Device, error) {
			return scanRow(row)
		})
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (*model.Device, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var device model.Device
	if err := scan(&device, row); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from devices where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scanRow(row pgx.CollectableRow) (*model.Device, error) {
	var device model.Device
	if err := scan(&device, row); err != nil {
		return nil, err
	}
	return &device, nil
}

func scan(d *model.Device, row pgx.Row) error {
	return row.Scan(&d.ID, &d.Name, &d.UniqueID, &d.Disabled)
}
