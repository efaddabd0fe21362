package stocks

import "strings"

// Role is a canonical field the builder tries to fill from loosely named CSV columns
type Role string

const (
	RoleName        Role = "name"
	RoleReturn1D    Role = "return_1d"
	RoleReturn1W    Role = "return_1w"
	RoleReturn1M    Role = "return_1m"
	RoleSeries5D    Role = "return_5d_series"
	RoleDailyChange Role = "daily_change"
)

// roleAliases lists accepted lower-cased header spellings per role.
// ⭐ SSOT: 컬럼 별칭은 여기서만 정의
var roleAliases = []struct {
	role    Role
	aliases []string
}{
	{RoleName, []string{"name", "symbol"}},
	{RoleReturn1D, []string{"return over 1day", "return over 1 day", "return_1day", "1d", "day_return"}},
	{RoleReturn1W, []string{"return over 1week", "return over 1 week", "return_1week", "1w", "weekly_return"}},
	{RoleReturn1M, []string{"return over 1month", "return over 1 month", "return_1month", "1m", "monthly_return"}},
	{RoleSeries5D, []string{"5d_return", "5day_change", "5day", "5d", "five_day", "fiveday"}},
	{RoleDailyChange, []string{"1d_change", "daily_change", "1d_chnge", "day_change"}},
}

// Exchange code columns consulted by the tickers filter
var (
	bseCodeAliases = []string{"bse code"}
	nseCodeAliases = []string{"nse code"}
)

// ColumnMap binds canonical roles to the actual header names of a dataset.
// An empty string means the role is absent.
type ColumnMap struct {
	Name        string
	Return1D    string
	Return1W    string
	Return1M    string
	Series5D    string
	DailyChange string
	BSECode     string
	NSECode     string
}

// ResolveColumns binds every role to the first header (in header order) matching one of its aliases
func ResolveColumns(columns []string) ColumnMap {
	var cm ColumnMap
	for _, entry := range roleAliases {
		col := firstMatch(columns, entry.aliases)
		switch entry.role {
		case RoleName:
			cm.Name = col
		case RoleReturn1D:
			cm.Return1D = col
		case RoleReturn1W:
			cm.Return1W = col
		case RoleReturn1M:
			cm.Return1M = col
		case RoleSeries5D:
			cm.Series5D = col
		case RoleDailyChange:
			cm.DailyChange = col
		}
	}
	cm.BSECode = firstMatch(columns, bseCodeAliases)
	cm.NSECode = firstMatch(columns, nseCodeAliases)
	return cm
}

// Bound reports whether a role resolved to a column
func (cm ColumnMap) Bound(role Role) bool {
	switch role {
	case RoleName:
		return cm.Name != ""
	case RoleReturn1D:
		return cm.Return1D != ""
	case RoleReturn1W:
		return cm.Return1W != ""
	case RoleReturn1M:
		return cm.Return1M != ""
	case RoleSeries5D:
		return cm.Series5D != ""
	case RoleDailyChange:
		return cm.DailyChange != ""
	}
	return false
}

func firstMatch(columns []string, aliases []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, alias := range aliases {
			if lower == alias {
				return col
			}
		}
	}
	return ""
}

// value returns row[col], or "" when the column is unbound
func value(row RawRow, col string) string {
	if col == "" {
		return ""
	}
	return row[col]
}
