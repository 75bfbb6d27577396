package mock

import (
	"htif/transport"
)

const driverName = "sim"

type Driver struct {
	target *Target
}

func (d *Driver) DisplayName() string {
	return "Simulated target"
}

func (d *Driver) DisplayDescription() string {
	return "Connect to an in-process simulated target for testing"
}

func (d *Driver) Open(_ string) (transport.Channel, error) {
	c, err := d.target.Open()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func init() {
	transport.Register(driverName, &Driver{target: NewTarget(nil)})
}
