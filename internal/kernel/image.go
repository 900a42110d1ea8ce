package kernel

// image.go constructs a kernel's entire static world (spec.md §3 Lifecycle: "every thread,
// process, and virq is created once, from a declarative image, at kernel start; nothing is
// created or destroyed afterward except by Exit") from a manifest, and is the one place that
// turns a YAML description into live Process/Thread/Virq values and wired capability tables.
//
// Grounded in original_source's image generation step (the build's linker-script-driven static
// table of processes/threads/capabilities) and the teacher's internal/monitor, which loads a
// program image from a file into the LC-3's address space before the machine starts running it.
// This port trades the teacher's Intel-hex loader for a YAML manifest, parsed with
// gopkg.in/yaml.v3, since nothing here needs a binary memory-image format.

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blitz/epoxy-riscv/internal/arch"
	"github.com/blitz/epoxy-riscv/internal/plic"
)

// Image is the declarative description of a kernel's world: its processes, their threads, the
// virqs that exist, and the capability each process holds over them.
type Image struct {
	Processes []ProcessSpec `yaml:"processes"`
	Virqs     []VirqSpec    `yaml:"virqs"`
}

// ProcessSpec describes one process: its address space and the threads that run in it.
type ProcessSpec struct {
	Name    string       `yaml:"name"`
	SATP    uint64       `yaml:"satp"`
	Threads []ThreadSpec `yaml:"threads"`
	Caps    []CapSpec    `yaml:"capabilities"`
}

// ThreadSpec describes one thread: where it starts executing.
type ThreadSpec struct {
	Entry uint64 `yaml:"entry"`
}

// CapSpec describes one entry in a process's capability table.
type CapSpec struct {
	Index CapabilityIndex `yaml:"index"`
	Kind  string          `yaml:"kind"` // "log", "exit", "virq-trigger", "virq-wait"

	// Prefix is used by Kind == "log"; if empty it defaults to "UU process=<pid>" (spec.md §6).
	Prefix string `yaml:"prefix,omitempty"`

	// Virq is used by Kind == "virq-trigger" and "virq-wait"; it names a VirqSpec by index into
	// Image.Virqs.
	Virq int `yaml:"virq,omitempty"`
}

// VirqSpec describes one virtual interrupt, optionally bound to a physical PLIC source.
type VirqSpec struct {
	Name     string    `yaml:"name"`
	PLICLine plic.Line `yaml:"plic_line,omitempty"`
}

// ParseImage decodes a YAML manifest into an Image.
func ParseImage(data []byte) (*Image, error) {
	var img Image

	if err := yaml.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("kernel: parse image: %w", err)
	}

	return &img, nil
}

// Build materializes the image into a live GlobalState: one Virq per VirqSpec, one Process per
// ProcessSpec with its SATP and capability table, and one Thread per ThreadSpec with a trap
// frame parked at its entry point. Thread IDs are assigned in declaration order across all
// processes, which is also the order the scheduler's round-robin cursor walks.
func (img *Image) Build(hart *arch.Hart) (*GlobalState, error) {
	st := NewGlobalState(hart)

	st.Virqs = make([]*Virq, len(img.Virqs))
	for i, spec := range img.Virqs {
		v := NewVirq(VirqID(i))
		if spec.PLICLine != 0 {
			v.BindPLIC(spec.PLICLine)
		}

		st.Virqs[i] = v
	}

	st.Processes = make([]*Process, len(img.Processes))
	for i, pspec := range img.Processes {
		st.Processes[i] = NewProcess(ProcessID(i), pspec.SATP)
	}

	for pi, pspec := range img.Processes {
		proc := st.Processes[pi]

		for _, cspec := range pspec.Caps {
			obj, err := img.buildCapability(st, ProcessID(pi), cspec)
			if err != nil {
				return nil, fmt.Errorf("kernel: build image: process %q: %w", pspec.Name, err)
			}

			proc.Grant(cspec.Index, obj)
		}

		for _, tspec := range pspec.Threads {
			id := ThreadID(len(st.Threads))
			st.Threads = append(st.Threads, Thread{
				ID:        id,
				ProcessID: ProcessID(pi),
				Frame:     NewTrapFrame(tspec.Entry),
				State:     Runnable,
			})
		}
	}

	st.RunningThreads = len(st.Threads)

	return st, nil
}

func (img *Image) buildCapability(st *GlobalState, pid ProcessID, cspec CapSpec) (KernelObject, error) {
	switch cspec.Kind {
	case "log":
		prefix := cspec.Prefix
		if prefix == "" {
			prefix = fmt.Sprintf("UU process=%d", pid)
		}

		return NewLogObject(prefix), nil

	case "exit":
		return NewExitObject(), nil

	case "virq-trigger":
		v, err := img.virq(st, cspec.Virq)
		if err != nil {
			return nil, err
		}

		return NewVirqTriggerObject(v), nil

	case "virq-wait":
		v, err := img.virq(st, cspec.Virq)
		if err != nil {
			return nil, err
		}

		return NewVirqWaitObject(v), nil

	default:
		return nil, fmt.Errorf("kernel: unknown capability kind %q", cspec.Kind)
	}
}

func (img *Image) virq(st *GlobalState, idx int) (*Virq, error) {
	if idx < 0 || idx >= len(st.Virqs) {
		return nil, fmt.Errorf("kernel: virq index %d out of range", idx)
	}

	return st.Virqs[idx], nil
}
