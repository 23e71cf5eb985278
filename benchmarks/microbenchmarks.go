package benchmarks

import (
	"fmt"
	"math"
	"strings"

	"github.com/sarchlab/swim/emu"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks for
// latency calibration. Each benchmark targets one instruction class.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		matrixMultiply2x2(),
		loopSimulation(),
		floatingPoint(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick
// validation: a loop, a matrix multiply and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		matrixMultiply2x2(),
		branchTaken(),
	}
}

// 1. Arithmetic Sequential - Tests ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	var sb strings.Builder
	for range 4 {
		for _, reg := range []string{"$t0", "$t1", "$t2", "$t3", "$t4"} {
			fmt.Fprintf(&sb, "\taddi %s, %s, 1\n", reg, reg)
		}
	}
	sb.WriteString("\tmove $v0, $t0\n\tsyscall\n")

	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDIs - measures ALU throughput",
		Source:      sb.String(),
		Expected:    4,
	}
}

// 2. Dependency Chain - Tests instruction latency with RAW hazards
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDIs ($v0 = $v0 + 1) - measures back-to-back latency",
		Source:      buildDependencyChain(20),
		Setup: func(regFile *emu.RegFile, _ *emu.Memory) {
			regFile.Write(emu.V0, 100)
		},
		Expected: 120,
	}
}

func buildDependencyChain(n int) string {
	return strings.Repeat("\taddi $v0, $v0, 1\n", n) + "\tsyscall\n"
}

// 3. Memory Sequential - Tests the data cache with a streaming pattern
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "8 stores then 8 loads over one array - measures load/store latency",
		Source: `
	li $s0, array
	li $t1, 1
	li $t2, 9
store:	sw $t1, 0($s0)
	addi $s0, $s0, 4
	addi $t1, $t1, 1
	bne $t1, $t2, store

	li $s0, array
	li $t0, 8
	li $v0, 0
load:	lw $t3, 0($s0)
	add $v0, $v0, $t3
	addi $s0, $s0, 4
	addi $t0, $t0, -1
	bne $t0, $zero, load
	syscall
.data
array:	.space 32
`,
		Expected: 36,
	}
}

// 4. Function Calls - Tests jal/jr overhead
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "5 calls to a leaf function - measures call/return overhead",
		Source: `
	li $v0, 0
	li $s0, 5
call:	jal addThree
	addi $s0, $s0, -1
	bne $s0, $zero, call
	syscall

addThree:
	addi $v0, $v0, 3
	jr $ra
`,
		Expected: 15,
	}
}

// 5. Branch Taken - Tests unconditional branches inside a loop
func branchTaken() Benchmark {
	return Benchmark{
		Name:        "branch_taken",
		Description: "10 iterations skipping a poisoned ADDI - measures taken-branch cost",
		Source: `
	li $t0, 10
	li $v0, 0
loop:	b skip
	addi $v0, $v0, 100
skip:	addi $v0, $v0, 1
	addi $t0, $t0, -1
	bne $t0, $zero, loop
	syscall
`,
		Expected: 10,
	}
}

// 6. Mixed Operations - Tests a blend of ALU, multiply, divide and memory
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "MUL, DIV, SLT, AND, OR and a store/load round trip",
		Source: `
	li $t0, 12
	li $t1, 5
	mul $t2, $t0, $t1
	div $t3, $t2, $t1
	slt $t4, $t1, $t0
	and $t5, $t0, $t1
	or $t6, $t0, $t1
	add $v0, $t2, $t3
	add $v0, $v0, $t4
	add $v0, $v0, $t5
	add $v0, $v0, $t6
	sw $v0, out
	lw $v0, out
	syscall
.data
out:	.word 0
`,
		Expected: 90,
	}
}

// 7. Matrix Multiply 2x2 - Tests loads feeding multiplies
func matrixMultiply2x2() Benchmark {
	return Benchmark{
		Name:        "matrix_multiply_2x2",
		Description: "Unrolled 2x2 integer matrix multiply, sum of the product",
		Source: `
	li $s0, matA
	li $s1, matB
	lw $t0, 0($s0)
	lw $t1, 4($s0)
	lw $t2, 8($s0)
	lw $t3, 12($s0)
	lw $t4, 0($s1)
	lw $t5, 4($s1)
	lw $t6, 8($s1)
	lw $t7, 12($s1)

	mul $s2, $t0, $t4
	mul $s3, $t1, $t6
	add $s2, $s2, $s3
	mul $s3, $t0, $t5
	mul $s4, $t1, $t7
	add $s3, $s3, $s4
	mul $s4, $t2, $t4
	mul $s5, $t3, $t6
	add $s4, $s4, $s5
	mul $s5, $t2, $t5
	mul $s6, $t3, $t7
	add $s5, $s5, $s6

	add $v0, $s2, $s3
	add $v0, $v0, $s4
	add $v0, $v0, $s5
	syscall
.data
matA:	.word 1, 2, 3, 4
matB:	.word 5, 6, 7, 8
`,
		Expected: 19 + 22 + 43 + 50,
	}
}

// 8. Loop Simulation - Tests a counted loop
func loopSimulation() Benchmark {
	return Benchmark{
		Name:        "loop_simulation",
		Description: "Sum of 1..100 in a counted loop",
		Source: `
	li $t0, 100
	li $v0, 0
loop:	add $v0, $v0, $t0
	addi $t0, $t0, -1
	bne $t0, $zero, loop
	syscall
`,
		Expected: 5050,
	}
}

// 9. Floating Point - Tests single-precision arithmetic and FP branches
func floatingPoint() Benchmark {
	return Benchmark{
		Name:        "floating_point",
		Description: "ADD.S, MUL.S and a conditional SUB.S on loaded floats",
		Source: `
	lwc1 $f0, first
	lwc1 $f1, second
	add.s $f2, $f0, $f1
	mul.s $f2, $f2, $f1
	c.lt.s $f0, $f2
	bc1f done
	sub.s $f2, $f2, $f0
done:	swc1 $f2, out
	lw $v0, out
	syscall
.data
first:	.float 1.5
second:	.float 2.5
out:	.word 0
`,
		Expected: uint64(math.Float32bits(8.5)),
	}
}
