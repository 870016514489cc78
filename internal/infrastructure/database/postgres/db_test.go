package postgres

import (
	"github.com/pashagolub/pgxmock/v4"
)

// The mock pool must keep satisfying the repository pool interface.
var _ DBPool = (pgxmock.PgxPoolIface)(nil)
