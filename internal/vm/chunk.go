package vm

import "encoding/binary"

// Chunk represents a sequence of bytecode instructions
type Chunk struct {
	// Code is the bytecode instructions
	Code []byte

	// Constants pool; every CONST operand indexes it
	Constants []Value

	// Slots is the number of storage slots the code addresses
	Slots int

	constIndex map[Value]int
}

// NewChunk creates a new empty chunk
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 64),
		Constants: make([]Value, 0, 16),
	}
}

// Write adds a byte to the chunk
func (c *Chunk) Write(b byte) {
	c.Code = append(c.Code, b)
}

// WriteOp writes an opcode to the chunk
func (c *Chunk) WriteOp(op Opcode) {
	c.Write(byte(op))
}

// WriteOperand writes a big-endian 4-byte operand
func (c *Chunk) WriteOperand(v int) {
	c.Code = binary.BigEndian.AppendUint32(c.Code, uint32(v))
}

// ReadOperand reads a 4-byte operand at offset
func (c *Chunk) ReadOperand(offset int) int {
	return int(binary.BigEndian.Uint32(c.Code[offset:]))
}

// PatchOperand overwrites the 4-byte operand at offset
func (c *Chunk) PatchOperand(offset, v int) {
	binary.BigEndian.PutUint32(c.Code[offset:], uint32(v))
}

// AddConstant adds a constant to the pool and returns its index. Equal
// constants share one entry.
func (c *Chunk) AddConstant(v Value) int {
	if c.constIndex == nil {
		c.constIndex = make(map[Value]int, len(c.Constants))
		for i, existing := range c.Constants {
			if _, seen := c.constIndex[existing]; !seen {
				c.constIndex[existing] = i
			}
		}
	}
	if i, ok := c.constIndex[v]; ok {
		return i
	}
	c.Constants = append(c.Constants, v)
	c.constIndex[v] = len(c.Constants) - 1
	return len(c.Constants) - 1
}

// Len returns the number of bytes in the chunk
func (c *Chunk) Len() int {
	return len(c.Code)
}
