package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for each instruction class.
// Values approximate a classic in-order MIPS R4000-style core.
type TimingConfig struct {
	// ALULatency is the execution latency for integer add, subtract,
	// logic, compare and upper-immediate operations. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// BranchLatency is the latency for beq, bne, j, jal, jalr, bc1t and
	// bc1f. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// LoadLatency is the latency for lw and lwc1 when no data cache is
	// modelled. Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency for sw and swc1 when no data cache is
	// modelled. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// MultiplyLatency is the latency for mul and dmul. Default: 5 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// DivideLatencyMin is the latency for 32-bit div. Default: 20 cycles.
	DivideLatencyMin uint64 `json:"divide_latency_min"`

	// DivideLatencyMax is the latency for 64-bit ddiv. Default: 36 cycles.
	DivideLatencyMax uint64 `json:"divide_latency_max"`

	// FPAddLatency covers add, sub and compares in either precision.
	// Default: 4 cycles.
	FPAddLatency uint64 `json:"fp_add_latency"`

	// FPMulLatency covers mul.s and mul.d. Default: 7 cycles.
	FPMulLatency uint64 `json:"fp_mul_latency"`

	// FPDivLatency covers div.s and div.d. Default: 23 cycles.
	FPDivLatency uint64 `json:"fp_div_latency"`

	// MoveLatency covers mtc1, dmtc1, mfc1 and dmfc1. Default: 1 cycle.
	MoveLatency uint64 `json:"move_latency"`

	// SyscallLatency is the latency for syscall. Default: 1 cycle.
	SyscallLatency uint64 `json:"syscall_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:       1,
		BranchLatency:    1,
		LoadLatency:      2,
		StoreLatency:     1,
		MultiplyLatency:  5,
		DivideLatencyMin: 20,
		DivideLatencyMax: 36,
		FPAddLatency:     4,
		FPMulLatency:     7,
		FPDivLatency:     23,
		MoveLatency:      1,
		SyscallLatency:   1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from
// the file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	positive := []struct {
		name  string
		value uint64
	}{
		{"alu_latency", c.ALULatency},
		{"branch_latency", c.BranchLatency},
		{"load_latency", c.LoadLatency},
		{"store_latency", c.StoreLatency},
		{"multiply_latency", c.MultiplyLatency},
		{"fp_add_latency", c.FPAddLatency},
		{"fp_mul_latency", c.FPMulLatency},
		{"fp_div_latency", c.FPDivLatency},
		{"move_latency", c.MoveLatency},
		{"syscall_latency", c.SyscallLatency},
	}
	for _, p := range positive {
		if p.value == 0 {
			return fmt.Errorf("%s must be > 0", p.name)
		}
	}
	if c.DivideLatencyMin == 0 {
		return fmt.Errorf("divide_latency_min must be > 0")
	}
	if c.DivideLatencyMin > c.DivideLatencyMax {
		return fmt.Errorf("divide_latency_min must be <= divide_latency_max")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
