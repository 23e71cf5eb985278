package pipeline

import (
	"maps"
	"slices"
)

// LineInformation describes one line of the visual datapath diagram.
type LineInformation struct {
	Title       string
	Description string

	// Value is the value on the line. Only the low Bits bits are
	// meaningful.
	Value uint64
	Bits  uint
}

type lineSpec struct {
	title       string
	description string
	bits        uint
	value       func(d *Datapath) uint64
}

var lines = map[string]lineSpec{
	"instruction": {"The Instruction", "The bits of the instruction in flight.", 32,
		func(d *Datapath) uint64 { return uint64(d.state.Instruction) }},
	"pc": {"Program Counter", "The address of the next instruction to fetch.", 64,
		func(d *Datapath) uint64 { return d.regFile.PC() }},
	"register_write_data": {"Register Write Data", "The value written to the destination register.", 64,
		func(d *Datapath) uint64 { return d.state.RegisterWriteData }},
	"rs": {"Instruction [25-21] (rs)", "The first source register field.", 5,
		func(d *Datapath) uint64 { return uint64(d.state.RS) }},
	"rt": {"Instruction [20-16] (rt)", "The second source register field, or the destination of an I-type instruction.", 5,
		func(d *Datapath) uint64 { return uint64(d.state.RT) }},
	"rd": {"Instruction [15-11] (rd)", "The destination register field of an R-type instruction.", 5,
		func(d *Datapath) uint64 { return uint64(d.state.RD) }},
	"imm": {"Instruction [15-0] (imm)", "The 16-bit immediate field.", 16,
		func(d *Datapath) uint64 { return uint64(d.state.Imm) }},
	"coprocessor.fs": {"Instruction [15-11] (fs)", "The first floating-point source register field.", 5,
		func(d *Datapath) uint64 { return uint64(d.state.FS) }},
	"read_data_1": {"Read Data 1", "The value of register rs.", 64,
		func(d *Datapath) uint64 { return d.state.ReadData1 }},
	"read_data_2": {"Read Data 2", "The value of register rt.", 64,
		func(d *Datapath) uint64 { return d.state.ReadData2 }},
	"sign_extend": {"Sign Extended Immediate", "The 16-bit immediate sign-extended to 64 bits.", 64,
		func(d *Datapath) uint64 { return d.state.SignExtend }},
	"sign_extend_shift_left_by_2": {"Sign Extended Immediate << 2", "The sign-extended immediate shifted left by 2.", 64,
		func(d *Datapath) uint64 { return d.state.SignExtendShiftLeftBy2 }},
	"alu_result": {"ALU Result", "The main output of the ALU.", 64,
		func(d *Datapath) uint64 { return d.state.ALUResult }},
	"memory_data": {"Memory Data", "The word read from memory.", 64,
		func(d *Datapath) uint64 { return d.state.MemoryData }},
	"data_result": {"Data Result", "The value selected for write-back.", 64,
		func(d *Datapath) uint64 { return d.state.DataResult }},
	"lower_26": {"Lower 26", "The low 26 bits of the instruction.", 26,
		func(d *Datapath) uint64 { return uint64(d.state.Lower26) }},
	"lower_26_shifted_left_by_2": {"Lower 26 << 2", "The low 26 bits of the instruction shifted left by 2.", 28,
		func(d *Datapath) uint64 { return uint64(d.state.Lower26ShiftedLeftBy2) }},
	"jump_address": {"Jump Address", "The upper bits of PC + 4 joined with the shifted jump target.", 64,
		func(d *Datapath) uint64 { return d.state.JumpAddress }},
	"pc_plus_4": {"PC + 4", "The address of the instruction in flight plus 4.", 64,
		func(d *Datapath) uint64 { return d.state.PCPlus4 }},
	"new_pc": {"New PC", "The address of the next instruction to execute.", 64,
		func(d *Datapath) uint64 { return d.state.NewPC }},
	"relative_pc_branch": {"Relative PC Branch", "The PC-relative branch target.", 64,
		func(d *Datapath) uint64 { return d.state.RelativePCBranch }},
	"mem_mux1_to_mem_mux2": {"Mux to Mux", "Either PC + 4 or the relative branch target.", 64,
		func(d *Datapath) uint64 { return d.state.MemMux1ToMemMux2 }},
	"write_data": {"Write Data", "The value written to memory when a store executes.", 64,
		func(d *Datapath) uint64 { return d.state.WriteData }},
}

// LineInfo returns the current value and description of a named datapath
// line. Unknown names return a placeholder with zero bits.
func (d *Datapath) LineInfo(name string) LineInformation {
	spec, ok := lines[name]
	if !ok {
		return LineInformation{Title: "[Title]", Description: "[Description]"}
	}

	return LineInformation{
		Title:       spec.title,
		Description: spec.description,
		Value:       spec.value(d),
		Bits:        spec.bits,
	}
}

// LineNames returns the sorted names accepted by LineInfo.
func LineNames() []string {
	return slices.Sorted(maps.Keys(lines))
}
