// Package models holds the typed telemetry records exchanged with the bridge
// and the registry that maps wire module names onto their decoders.
package models

import (
	"fmt"
	"strings"
	"sync"
)

// Module names as they appear on DATA_UPDATE frames.
const (
	ModuleBattery   = "battery"
	ModuleCPU       = "cpu"
	ModuleDisks     = "disks"
	ModuleDisplays  = "displays"
	ModuleGPUs      = "gpus"
	ModuleMedia     = "media"
	ModuleMemory    = "memory"
	ModuleNetworks  = "networks"
	ModuleProcesses = "processes"
	ModuleSensors   = "sensors"
	ModuleSystem    = "system"
)

// AllModules lists every telemetry module in wire order.
var AllModules = []string{
	ModuleBattery,
	ModuleCPU,
	ModuleDisks,
	ModuleDisplays,
	ModuleGPUs,
	ModuleMedia,
	ModuleMemory,
	ModuleNetworks,
	ModuleProcesses,
	ModuleSensors,
	ModuleSystem,
}

// Battery holds charge state. All fields are optional; desktops report none.
type Battery struct {
	IsCharging    *bool    `json:"is_charging"`
	Percentage    *float64 `json:"percentage"`
	TimeRemaining *float64 `json:"time_remaining"`
}

// CPUFrequency holds clock frequencies in MHz.
type CPUFrequency struct {
	Current *float64 `json:"current"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

// CPUStats holds scheduler counters.
type CPUStats struct {
	CtxSwitches    *int64 `json:"ctx_switches"`
	Interrupts     *int64 `json:"interrupts"`
	SoftInterrupts *int64 `json:"soft_interrupts"`
	Syscalls       *int64 `json:"syscalls"`
}

// CPUTimes holds cumulative time spent per state, in seconds.
type CPUTimes struct {
	User   *float64 `json:"user"`
	System *float64 `json:"system"`
	Idle   *float64 `json:"idle"`
	IOWait *float64 `json:"iowait"`
}

// PerCPU holds one logical core's state.
type PerCPU struct {
	ID        int           `json:"id"`
	Frequency *CPUFrequency `json:"frequency"`
	Power     *float64      `json:"power"`
	Times     *CPUTimes     `json:"times"`
	Usage     *float64      `json:"usage"`
	Voltage   *float64      `json:"voltage"`
}

// CPU is the cpu module payload.
type CPU struct {
	Count       *int          `json:"count"`
	Frequency   *CPUFrequency `json:"frequency"`
	LoadAverage *float64      `json:"load_average"`
	PerCPU      []PerCPU      `json:"per_cpu"`
	Power       *float64      `json:"power"`
	Stats       *CPUStats     `json:"stats"`
	Temperature *float64      `json:"temperature"`
	Times       *CPUTimes     `json:"times"`
	Usage       *float64      `json:"usage"`
	Voltage     *float64      `json:"voltage"`
}

// DiskUsage holds capacity counters for one filesystem, in bytes.
type DiskUsage struct {
	Total   int64   `json:"total"`
	Used    int64   `json:"used"`
	Free    int64   `json:"free"`
	Percent float64 `json:"percent"`
}

// DiskPartition describes one mounted partition.
type DiskPartition struct {
	Device         string     `json:"device"`
	MountPoint     string     `json:"mount_point"`
	FilesystemType string     `json:"filesystem_type"`
	Options        string     `json:"options"`
	MaxFileSize    int64      `json:"max_file_size"`
	MaxPathLength  int64      `json:"max_path_length"`
	Usage          *DiskUsage `json:"usage"`
}

// DiskIOCounters holds cumulative device IO counters.
type DiskIOCounters struct {
	ReadCount  int64 `json:"read_count"`
	WriteCount int64 `json:"write_count"`
	ReadBytes  int64 `json:"read_bytes"`
	WriteBytes int64 `json:"write_bytes"`
	ReadTime   int64 `json:"read_time"`
	WriteTime  int64 `json:"write_time"`
}

// Disk describes one physical device and its partitions.
type Disk struct {
	Name       string          `json:"name"`
	Partitions []DiskPartition `json:"partitions"`
	IOCounters *DiskIOCounters `json:"io_counters"`
}

// Disks is the disks module payload.
type Disks struct {
	Devices    []Disk          `json:"devices"`
	IOCounters *DiskIOCounters `json:"io_counters"`
}

// Display describes one attached display.
type Display struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	ResolutionHorizontal int      `json:"resolution_horizontal"`
	ResolutionVertical   int      `json:"resolution_vertical"`
	X                    int      `json:"x"`
	Y                    int      `json:"y"`
	Width                *int     `json:"width"`
	Height               *int     `json:"height"`
	IsPrimary            *bool    `json:"is_primary"`
	PixelClock           *float64 `json:"pixel_clock"`
	RefreshRate          *float64 `json:"refresh_rate"`
}

// GPU describes one graphics adapter.
type GPU struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CoreClock   *float64 `json:"core_clock"`
	CoreLoad    *float64 `json:"core_load"`
	FanSpeed    *float64 `json:"fan_speed"`
	MemoryClock *float64 `json:"memory_clock"`
	MemoryLoad  *float64 `json:"memory_load"`
	MemoryFree  *float64 `json:"memory_free"`
	MemoryUsed  *float64 `json:"memory_used"`
	MemoryTotal *float64 `json:"memory_total"`
	PowerUsage  *float64 `json:"power_usage"`
	Temperature *float64 `json:"temperature"`
}

// Media is the media module payload: the state of the active media session.
type Media struct {
	AlbumArtist          *string  `json:"album_artist"`
	AlbumTitle           *string  `json:"album_title"`
	Artist               *string  `json:"artist"`
	Duration             *float64 `json:"duration"`
	IsFastForwardEnabled *bool    `json:"is_fast_forward_enabled"`
	IsNextEnabled        *bool    `json:"is_next_enabled"`
	IsPauseEnabled       *bool    `json:"is_pause_enabled"`
	IsPlayEnabled        *bool    `json:"is_play_enabled"`
	IsPreviousEnabled    *bool    `json:"is_previous_enabled"`
	IsRewindEnabled      *bool    `json:"is_rewind_enabled"`
	IsStopEnabled        *bool    `json:"is_stop_enabled"`
	PlaybackRate         *float64 `json:"playback_rate"`
	Position             *float64 `json:"position"`
	RepeatMode           *string  `json:"repeat_mode"`
	Shuffle              *bool    `json:"shuffle"`
	Status               *string  `json:"status"`
	Subtitle             *string  `json:"subtitle"`
	Title                *string  `json:"title"`
	Type                 *string  `json:"type"`
	UpdatedAt            *float64 `json:"updated_at"`
}

// MemorySwap holds swap usage counters, in bytes.
type MemorySwap struct {
	Total   int64   `json:"total"`
	Used    int64   `json:"used"`
	Free    int64   `json:"free"`
	Percent float64 `json:"percent"`
	Sin     int64   `json:"sin"`
	Sout    int64   `json:"sout"`
}

// MemoryVirtual holds RAM usage counters, in bytes.
type MemoryVirtual struct {
	Total     int64   `json:"total"`
	Available int64   `json:"available"`
	Percent   float64 `json:"percent"`
	Used      int64   `json:"used"`
	Free      int64   `json:"free"`
	Active    *int64  `json:"active"`
	Inactive  *int64  `json:"inactive"`
	Buffers   *int64  `json:"buffers"`
	Cached    *int64  `json:"cached"`
	Shared    *int64  `json:"shared"`
}

// Memory is the memory module payload.
type Memory struct {
	Swap    *MemorySwap    `json:"swap"`
	Virtual *MemoryVirtual `json:"virtual"`
}

// NetworkAddress holds one address bound to an interface.
type NetworkAddress struct {
	Address   string  `json:"address"`
	Family    string  `json:"family"`
	Netmask   *string `json:"netmask"`
	Broadcast *string `json:"broadcast"`
	PTP       *string `json:"ptp"`
}

// NetworkStats holds interface link state.
type NetworkStats struct {
	IsUp   bool     `json:"isup"`
	Duplex string   `json:"duplex"`
	Speed  int      `json:"speed"`
	MTU    int      `json:"mtu"`
	Flags  []string `json:"flags"`
}

// NetworkIOCounters holds cumulative traffic counters.
type NetworkIOCounters struct {
	BytesSent   int64 `json:"bytes_sent"`
	BytesRecv   int64 `json:"bytes_recv"`
	PacketsSent int64 `json:"packets_sent"`
	PacketsRecv int64 `json:"packets_recv"`
	ErrIn       int64 `json:"errin"`
	ErrOut      int64 `json:"errout"`
	DropIn      int64 `json:"dropin"`
	DropOut     int64 `json:"dropout"`
}

// Network describes one interface.
type Network struct {
	Name      string           `json:"name"`
	Addresses []NetworkAddress `json:"addresses"`
	Stats     *NetworkStats    `json:"stats"`
}

// Networks is the networks module payload.
type Networks struct {
	Connections []any              `json:"connections"`
	IOCounters  *NetworkIOCounters `json:"io_counters"`
	Networks    []Network          `json:"networks"`
}

// Process describes one running process.
type Process struct {
	ID               float64  `json:"id"`
	Name             string   `json:"name"`
	CPUUsage         *float64 `json:"cpu_usage"`
	Created          *float64 `json:"created"`
	MemoryUsage      *float64 `json:"memory_usage"`
	Path             *string  `json:"path"`
	Status           *string  `json:"status"`
	Username         *string  `json:"username"`
	WorkingDirectory *string  `json:"working_directory"`
}

// SensorsWindows holds hardware sensor trees reported by Windows backends.
type SensorsWindows struct {
	Hardware []any `json:"hardware"`
	NVIDIA   any   `json:"nvidia"`
}

// Sensors is the sensors module payload.
type Sensors struct {
	Fans           any             `json:"fans"`
	Temperatures   any             `json:"temperatures"`
	WindowsSensors *SensorsWindows `json:"windows_sensors"`
}

// SystemUser describes one logged-in user session.
type SystemUser struct {
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	Terminal string  `json:"terminal"`
	Host     string  `json:"host"`
	Started  int64   `json:"started"`
	PID      float64 `json:"pid"`
}

// System is the system module payload. The version probe also decodes this
// record from GET /api/data/system.
type System struct {
	BootTime              int64        `json:"boot_time"`
	FQDN                  string       `json:"fqdn"`
	Hostname              string       `json:"hostname"`
	KernelVersion         string       `json:"kernel_version"`
	IPAddress4            string       `json:"ip_address_4"`
	MACAddress            string       `json:"mac_address"`
	PlatformVersion       string       `json:"platform_version"`
	Platform              string       `json:"platform"`
	Uptime                int64        `json:"uptime"`
	Users                 []SystemUser `json:"users"`
	UUID                  string       `json:"uuid"`
	Version               string       `json:"version"`
	CameraUsage           []string     `json:"camera_usage"`
	IPAddress6            *string      `json:"ip_address_6"`
	PendingReboot         *bool        `json:"pending_reboot"`
	PowerUsage            *float64     `json:"power_usage"`
	RunMode               *string      `json:"run_mode"`
	VersionLatestURL      *string      `json:"version_latest_url"`
	VersionLatest         *string      `json:"version_latest"`
	VersionNewerAvailable *bool        `json:"version_newer_available"`
}

// ModulesData aggregates one snapshot slot per telemetry module. A slot is
// set once any decoded payload has been assigned to it. Writes happen on the
// listener goroutine, reads on the GetData polling goroutine.
type ModulesData struct {
	mu sync.RWMutex

	Battery   *Battery
	CPU       *CPU
	Disks     *Disks
	Displays  []Display
	GPUs      []GPU
	Media     *Media
	Memory    *Memory
	Networks  *Networks
	Processes []Process
	Sensors   *Sensors
	System    *System
}

// SetModuleData assigns a decoded payload to the slot for module. The payload
// must be the registry's decode result for that module.
func (d *ModulesData) SetModuleData(module string, data any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch strings.ToLower(module) {
	case ModuleBattery:
		v, ok := data.(*Battery)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Battery = v
	case ModuleCPU:
		v, ok := data.(*CPU)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.CPU = v
	case ModuleDisks:
		v, ok := data.(*Disks)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Disks = v
	case ModuleDisplays:
		v, ok := data.([]Display)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Displays = v
	case ModuleGPUs:
		v, ok := data.([]GPU)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.GPUs = v
	case ModuleMedia:
		v, ok := data.(*Media)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Media = v
	case ModuleMemory:
		v, ok := data.(*Memory)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Memory = v
	case ModuleNetworks:
		v, ok := data.(*Networks)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Networks = v
	case ModuleProcesses:
		v, ok := data.([]Process)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Processes = v
	case ModuleSensors:
		v, ok := data.(*Sensors)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.Sensors = v
	case ModuleSystem:
		v, ok := data.(*System)
		if !ok {
			return fmt.Errorf("module %s: unexpected payload type %T", module, data)
		}
		d.System = v
	default:
		return fmt.Errorf("unknown module %q", module)
	}
	return nil
}

// HasModule reports whether the slot for module has been set.
func (d *ModulesData) HasModule(module string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch strings.ToLower(module) {
	case ModuleBattery:
		return d.Battery != nil
	case ModuleCPU:
		return d.CPU != nil
	case ModuleDisks:
		return d.Disks != nil
	case ModuleDisplays:
		return d.Displays != nil
	case ModuleGPUs:
		return d.GPUs != nil
	case ModuleMedia:
		return d.Media != nil
	case ModuleMemory:
		return d.Memory != nil
	case ModuleNetworks:
		return d.Networks != nil
	case ModuleProcesses:
		return d.Processes != nil
	case ModuleSensors:
		return d.Sensors != nil
	case ModuleSystem:
		return d.System != nil
	}
	return false
}

// HasAll reports whether every named module slot has been set.
func (d *ModulesData) HasAll(modules []string) bool {
	for _, m := range modules {
		if !d.HasModule(m) {
			return false
		}
	}
	return true
}
