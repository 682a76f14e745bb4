package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(fields ...string) []string { return fields }

func TestNormalize_WellFormedRows(t *testing.T) {
	rows := [][]string{
		row("Name", "Street", "City", "State", "Zip"),
		row("Ann Example", "1 Main St", "Springfield", "IL", "62701"),
		row("Bob Sample", "2 Oak Ave", "Portland", "OR", "97205"),
		row("Cam Test", "3 Pine Rd", "Austin", "TX", "78701"),
	}

	addrs, err := Normalize(rows, 1, false)
	require.NoError(t, err)

	// One address per data row, header skipped, order preserved.
	require.Len(t, addrs, 3)
	assert.Equal(t, "Ann Example\n1 Main St\nSpringfield IL 62701", addrs[0])
	assert.Equal(t, "Bob Sample\n2 Oak Ave\nPortland OR 97205", addrs[1])
	assert.Equal(t, "Cam Test\n3 Pine Rd\nAustin TX 78701", addrs[2])
}

func TestNormalize_StripsQuotesAndEquals(t *testing.T) {
	rows := [][]string{
		row(`"Ann Example"`, "1 Main St", "Springfield", "IL", `="62701"`),
	}

	addrs, err := Normalize(rows, 0, false)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "Ann Example\n1 Main St\nSpringfield IL 62701", addrs[0])
}

func TestNormalize_RepairsSplitRow(t *testing.T) {
	// A name containing a literal newline split one record in two: the
	// fragment carries the first name line, the following row the rest.
	rows := [][]string{
		row("ACME"),
		row("Corp", "1 Main St", "Springfield", "IL", "62701"),
	}

	addrs, err := Normalize(rows, 0, false)
	require.NoError(t, err)

	// Exactly one record, the fragment's fields newline-joined with a
	// trailing newline and prepended to the next row.
	require.Len(t, addrs, 1)
	assert.Equal(t, "ACME\n\nCorp\n1 Main St\nSpringfield IL 62701", addrs[0])
}

func TestNormalize_RepairsThreeFieldFragment(t *testing.T) {
	rows := [][]string{
		row("John", "Q", "Public"),
		row("Smith", "1 Main St", "Town", "ST", "00001"),
	}

	recs, err := Records(rows, 0, false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "John\nQ\nPublic\n\nSmith", recs[0].Name)
	assert.Equal(t, "1 Main St", recs[0].Street)
	assert.Equal(t, "00001", recs[0].Zip)
}

func TestNormalize_RepairsChainedFragments(t *testing.T) {
	rows := [][]string{
		row("Line one"),
		row("Line two"),
		row("Line three", "1 Main St", "Town", "ST", "00001"),
	}

	recs, err := Records(rows, 0, false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "00001", recs[0].Zip)
	assert.Contains(t, recs[0].Name, "Line one")
	assert.Contains(t, recs[0].Name, "Line three")
}

func TestNormalize_TrailingFragmentIsAnError(t *testing.T) {
	rows := [][]string{
		row("Ann Example", "1 Main St", "Springfield", "IL", "62701"),
		row("Dangling", "fragment"),
	}

	_, err := Normalize(rows, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ends mid-record")
}

func TestNormalize_SortByZip(t *testing.T) {
	rows := [][]string{
		row("Name", "Street", "City", "State", "Zip"),
		row("West", "1 Main St", "Beverly Hills", "CA", "90210"),
		row("East", "2 Oak Ave", "New York", "NY", "10001"),
		row("South", "3 Pine Rd", "Atlanta", "GA", "30301"),
	}

	addrs, err := Normalize(rows, 1, true)
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, "East\n2 Oak Ave\nNew York NY 10001", addrs[0])
	assert.Equal(t, "South\n3 Pine Rd\nAtlanta GA 30301", addrs[1])
	assert.Equal(t, "West\n1 Main St\nBeverly Hills CA 90210", addrs[2])
}

func TestNormalize_SortPreservesLeadingZeros(t *testing.T) {
	rows := [][]string{
		row("B", "2 Oak Ave", "New York", "NY", "10001"),
		row("A", "1 Main St", "Holtsville", "NY", "00501"),
	}

	recs, err := Records(rows, 0, true)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "00501", recs[0].Zip)
	assert.Equal(t, "10001", recs[1].Zip)
}

func TestNormalize_SortIsStable(t *testing.T) {
	rows := [][]string{
		row("First", "1 Main St", "Town", "ST", "11111"),
		row("Second", "2 Oak Ave", "Town", "ST", "11111"),
		row("Earlier", "3 Pine Rd", "Town", "ST", "00001"),
	}

	recs, err := Records(rows, 0, true)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Earlier", recs[0].Name)
	assert.Equal(t, "First", recs[1].Name)
	assert.Equal(t, "Second", recs[2].Name)
}

func TestNormalize_HeaderSkipPastEnd(t *testing.T) {
	rows := [][]string{
		row("Name", "Street", "City", "State", "Zip"),
	}

	addrs, err := Normalize(rows, 5, false)
	require.NoError(t, err)
	assert.Empty(t, addrs)
}
