package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/md14454/gosensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIdentifierIsa(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "ucsi_source_psy_USBC000:002",
		Addr:   0x0f1,
		Bus: gosensors.Bus{
			Type: BusTypeIsa,
			Nr:   1,
		},
		Path: "/sys/class/hwmon/hwmon7",
	}
	expected := "ucsi_source_psy_USBC000:002-isa-10f1"

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, expected, result)
}

func TestComputeIdentifierPci(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "nvme",
		Addr:   0x5,
		Bus: gosensors.Bus{
			Type: BusTypePci,
			Nr:   1,
		},
		Path: "/sys/class/hwmon/hwmon4",
	}
	expected := "nvme-pci-1005"

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, expected, result)
}

func TestComputeIdentifierAcpi(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "nvme",
		Bus: gosensors.Bus{
			Type: BusTypeAcpi,
			Nr:   1,
		},
		Path: "/sys/class/hwmon/hwmon4",
	}
	expected := fmt.Sprintf("%s-acpi-%d", c.Prefix, c.Bus.Nr)

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, expected, result)
}

func TestComputeIdentifierFallsBackToNameFile(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "name"), []byte("k10temp\n"), 0644))
	c := gosensors.Chip{Path: dir}

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, "k10temp", result)
}

func TestFindPlatform(t *testing.T) {
	// GIVEN
	devicePath := "/sys/devices/pci0000:00/0000:00:0e.0/pci10000:e0/10000:e0:06.0/10000:e1:00.0/nvme/nvme0/hwmon3"

	// WHEN
	platform := findPlatform(devicePath)

	// THEN
	assert.Equal(t, "", platform)
}

func TestFindPlatform_Isa(t *testing.T) {
	// GIVEN
	devicePath := "/sys/devices/platform/nct6775.656/hwmon/hwmon2"

	// WHEN
	platform := findPlatform(devicePath)

	// THEN
	assert.Equal(t, "nct6775.656", platform)
}

func TestGetLabel(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "temp2_label"), []byte("CPU\n"), 0644))

	// THEN
	assert.Equal(t, "CPU", getLabel(dir, "temp2_input"))
	assert.Equal(t, filepath.Base(dir), getLabel(dir, "temp1_input"))
}

func TestFindChip(t *testing.T) {
	// GIVEN
	chips := []*Chip{
		{Name: "k10temp-pci-00c3", Platform: "k10temp-pci-00c3", Path: "/sys/class/hwmon/hwmon1"},
		{Name: "nct6798-isa-0290", Platform: "nct6775.656", Path: "/sys/class/hwmon/hwmon2"},
	}

	// WHEN
	byPlatform, errPlatform := FindChip(chips, "NCT6775")
	byName, errName := FindChip(chips, "k10temp")
	_, errMissing := FindChip(chips, "it87")
	_, errInvalid := FindChip(chips, "nct(")

	// THEN
	assert.NoError(t, errPlatform)
	assert.Equal(t, "/sys/class/hwmon/hwmon2", byPlatform.Path)
	assert.NoError(t, errName)
	assert.Equal(t, "/sys/class/hwmon/hwmon1", byName.Path)
	assert.EqualError(t, errMissing, "no hwmon chip matched platform 'it87'")
	assert.Error(t, errInvalid)
}

func TestResolveBasePath_WithoutPlatform(t *testing.T) {
	// WHEN
	configured, err := ResolveBasePath(configuration.HwMonConfig{Path: "/sys/class/hwmon/hwmon3"})
	fallback, fallbackErr := ResolveBasePath(configuration.HwMonConfig{})

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/sys/class/hwmon/hwmon3", configured)
	assert.NoError(t, fallbackErr)
	assert.Equal(t, configuration.DefaultHwMonPath, fallback)
}
