package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/md14454/gosensors"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

// Input is a single temperature or fan input of a chip
type Input struct {
	// Id is the name of the input without the "_input" suffix, f.ex. temp2 or fan1
	Id    string
	Label string
	Value float64
	// HasPwm is true for fans with a matching pwmN output
	HasPwm bool
}

// Chip is a hwmon device detected by libsensors
type Chip struct {
	Name     string
	DType    string
	Modalias string
	Platform string
	Path     string

	Fans    []Input
	Sensors []Input
}

// GetChips returns all detected chips exposing at least one fan or temperature input
func GetChips() []*Chip {
	gosensors.Init()
	defer gosensors.Cleanup()
	chips := gosensors.GetDetectedChips()

	var list []*Chip
	for _, chip := range chips {
		identifier := computeIdentifier(chip)
		platform := findPlatform(chip.Path)
		if len(platform) <= 0 {
			platform = identifier
		}

		fanList := getInputs(chip, gosensors.SubFeatureTypeFanInput)
		for i := range fanList {
			index := strings.TrimPrefix(fanList[i].Id, "fan")
			_, err := os.Stat(filepath.Join(chip.Path, "pwm"+index))
			fanList[i].HasPwm = err == nil
		}
		sensorList := getInputs(chip, gosensors.SubFeatureTypeTempInput)

		if len(fanList) <= 0 && len(sensorList) <= 0 {
			continue
		}

		list = append(list, &Chip{
			Name:     identifier,
			DType:    readDeviceFile(chip.Path, "type"),
			Modalias: readDeviceFile(chip.Path, "modalias"),
			Platform: platform,
			Path:     chip.Path,
			Fans:     fanList,
			Sensors:  sensorList,
		})
	}

	return list
}

// getInputs returns all subfeatures of the given input type, f.ex. all fanN_input files
func getInputs(chip gosensors.Chip, inputType gosensors.SubFeatureType) []Input {
	var result []Input
	for _, feature := range chip.GetFeatures() {
		for _, subFeature := range feature.GetSubFeatures() {
			if subFeature.Type != inputType {
				continue
			}
			value := subFeature.GetValue()
			result = append(result, Input{
				Id:    strings.TrimSuffix(subFeature.Name, "_input"),
				Label: getLabel(chip.Path, subFeature.Name),
				Value: value,
			})
		}
	}
	return result
}

// ResolveBasePath returns the hwmon device directory to use: the path of the
// chip matching the configured platform, or the configured path otherwise
func ResolveBasePath(config configuration.HwMonConfig) (string, error) {
	if len(config.Platform) <= 0 {
		if len(config.Path) <= 0 {
			return configuration.DefaultHwMonPath, nil
		}
		return config.Path, nil
	}

	chip, err := FindChip(GetChips(), config.Platform)
	if err != nil {
		return "", err
	}
	return chip.Path, nil
}

// FindChip returns the first chip whose platform or name matches the given
// (case-insensitive) regex
func FindChip(chips []*Chip, platform string) (*Chip, error) {
	r, err := regexp.Compile("(?i)" + platform)
	if err != nil {
		return nil, fmt.Errorf("invalid platform pattern '%s': %w", platform, err)
	}
	for _, chip := range chips {
		if r.MatchString(chip.Platform) || r.MatchString(chip.Name) {
			return chip, nil
		}
	}
	return nil, fmt.Errorf("no hwmon chip matched platform '%s'", platform)
}

// getLabel reads the label of an input of a device, falling back to the name of the device directory
func getLabel(devicePath string, input string) string {
	labelPath := filepath.Join(devicePath, strings.TrimSuffix(input, "input")+"label")

	content, _ := os.ReadFile(labelPath)
	label := strings.TrimSpace(string(content))
	if len(label) <= 0 {
		_, label = filepath.Split(devicePath)
	}
	return label
}

func readDeviceFile(devicePath string, name string) string {
	content, _ := os.ReadFile(filepath.Join(devicePath, "device", name))
	return strings.TrimSpace(string(content))
}

// computeIdentifier builds a libsensors style chip name like "nct6798-isa-0290"
func computeIdentifier(chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		content, _ := os.ReadFile(filepath.Join(devicePath, "name"))
		name = strings.TrimSpace(string(content))
	}

	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}

	address := int(chip.Bus.Nr)<<12 | int(chip.Addr)
	switch chip.Bus.Type {
	case BusTypeIsa:
		return fmt.Sprintf("%s-isa-%04x", name, address)
	case BusTypePci:
		return fmt.Sprintf("%s-pci-%04x", name, address)
	case BusTypeAcpi:
		return fmt.Sprintf("%s-acpi-%d", name, chip.Bus.Nr)
	}
	return name
}

var platformRegex = regexp.MustCompile(`/platform/([^/]+)/`)

// findPlatform extracts the platform device name from a sysfs device path, if any
func findPlatform(devicePath string) string {
	match := platformRegex.FindStringSubmatch(devicePath)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
