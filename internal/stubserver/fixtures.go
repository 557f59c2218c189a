package stubserver

import (
	"time"

	"github.com/systembridge/connector-go/pkg/models"
)

// Fixtures holds the canned module payloads the stub serves. Every field is
// the typed record the matching wire module carries.
type Fixtures struct {
	Battery   models.Battery
	CPU       models.CPU
	Disks     models.Disks
	Displays  []models.Display
	GPUs      []models.GPU
	Media     models.Media
	Memory    models.Memory
	Networks  models.Networks
	Processes []models.Process
	Sensors   models.Sensors
	System    models.System

	Directories []models.MediaDirectory
	Files       models.MediaFiles
	File        models.MediaFile
}

func ptr[T any](v T) *T { return &v }

// DefaultFixtures returns a static, deterministic fixture set covering every
// module. Values are plausible but fixed so tests can assert on them.
func DefaultFixtures() *Fixtures {
	now := time.Now().Unix()

	return &Fixtures{
		Battery: models.Battery{
			IsCharging:    ptr(false),
			Percentage:    ptr(87.5),
			TimeRemaining: ptr(9120.0),
		},
		CPU: models.CPU{
			Count: ptr(8),
			Frequency: &models.CPUFrequency{
				Current: ptr(3600.0),
				Min:     ptr(800.0),
				Max:     ptr(4200.0),
			},
			LoadAverage: ptr(1.25),
			PerCPU: []models.PerCPU{
				{ID: 0, Usage: ptr(12.0)},
				{ID: 1, Usage: ptr(48.0)},
			},
			Temperature: ptr(52.0),
			Usage:       ptr(23.4),
		},
		Disks: models.Disks{
			Devices: []models.Disk{
				{
					Name: "nvme0n1",
					Partitions: []models.DiskPartition{
						{
							Device:         "/dev/nvme0n1p2",
							MountPoint:     "/",
							FilesystemType: "ext4",
							Options:        "rw,relatime",
							Usage: &models.DiskUsage{
								Total:   512110190592,
								Used:    201010880512,
								Free:    311099310080,
								Percent: 39.3,
							},
						},
					},
					IOCounters: &models.DiskIOCounters{
						ReadCount:  123456,
						WriteCount: 654321,
						ReadBytes:  8 * 1024 * 1024 * 1024,
						WriteBytes: 12 * 1024 * 1024 * 1024,
					},
				},
			},
		},
		Displays: []models.Display{
			{
				ID:                   "DP-1",
				Name:                 "Main Display",
				ResolutionHorizontal: 2560,
				ResolutionVertical:   1440,
				IsPrimary:            ptr(true),
				RefreshRate:          ptr(144.0),
			},
		},
		GPUs: []models.GPU{
			{
				ID:          "gpu-0",
				Name:        "Test GPU",
				CoreClock:   ptr(1800.0),
				CoreLoad:    ptr(14.0),
				MemoryTotal: ptr(8192.0),
				MemoryUsed:  ptr(2048.0),
				Temperature: ptr(61.0),
			},
		},
		Media: models.Media{
			Artist: ptr("Test Artist"),
			Title:  ptr("Test Track"),
			Status: ptr("playing"),
		},
		Memory: models.Memory{
			Swap: &models.MemorySwap{
				Total:   8589934592,
				Used:    1073741824,
				Free:    7516192768,
				Percent: 12.5,
			},
			Virtual: &models.MemoryVirtual{
				Total:     34359738368,
				Available: 20401094656,
				Percent:   40.6,
				Used:      13958643712,
				Free:      20401094656,
			},
		},
		Networks: models.Networks{
			IOCounters: &models.NetworkIOCounters{
				BytesSent: 1024 * 1024 * 512,
				BytesRecv: 1024 * 1024 * 2048,
			},
			Networks: []models.Network{
				{
					Name: "eth0",
					Addresses: []models.NetworkAddress{
						{Address: "192.168.1.20", Family: "AF_INET", Netmask: ptr("255.255.255.0")},
					},
					Stats: &models.NetworkStats{IsUp: true, Speed: 1000, MTU: 1500},
				},
			},
		},
		Processes: []models.Process{
			{ID: 1, Name: "init", Status: ptr("sleeping")},
			{ID: 2001, Name: "systembridge", CPUUsage: ptr(0.7), Status: ptr("running")},
		},
		Sensors: models.Sensors{},
		System: models.System{
			BootTime:      now - 86400,
			FQDN:          "testhost.local",
			Hostname:      "testhost",
			KernelVersion: "6.8.0",
			IPAddress4:    "192.168.1.20",
			MACAddress:    "aa:bb:cc:dd:ee:ff",
			Platform:      "Linux",
			Uptime:        86400,
			UUID:          "00000000-0000-0000-0000-000000000001",
			Version:       "4.0.2",
		},
		Directories: []models.MediaDirectory{
			{Key: "documents", Name: "Documents", Path: "/home/test/Documents"},
			{Key: "music", Name: "Music", Path: "/home/test/Music"},
		},
		Files: models.MediaFiles{
			Path: "/home/test/Music",
			Files: []models.MediaFile{
				{
					Name:        "track.mp3",
					Path:        "track.mp3",
					Size:        4194304,
					IsDirectory: false,
					ModTime:     float64(now),
					Permissions: "-rw-r--r--",
					ContentType: ptr("audio/mpeg"),
					Extension:   ptr(".mp3"),
				},
			},
		},
		File: models.MediaFile{
			Name:        "track.mp3",
			Path:        "track.mp3",
			Size:        4194304,
			IsDirectory: false,
			ModTime:     float64(now),
			Permissions: "-rw-r--r--",
			ContentType: ptr("audio/mpeg"),
			Extension:   ptr(".mp3"),
		},
	}
}

// moduleData maps a wire module name onto its fixture payload.
func (f *Fixtures) moduleData(module string) (any, bool) {
	switch module {
	case models.ModuleBattery:
		return f.Battery, true
	case models.ModuleCPU:
		return f.CPU, true
	case models.ModuleDisks:
		return f.Disks, true
	case models.ModuleDisplays:
		return f.Displays, true
	case models.ModuleGPUs:
		return f.GPUs, true
	case models.ModuleMedia:
		return f.Media, true
	case models.ModuleMemory:
		return f.Memory, true
	case models.ModuleNetworks:
		return f.Networks, true
	case models.ModuleProcesses:
		return f.Processes, true
	case models.ModuleSensors:
		return f.Sensors, true
	case models.ModuleSystem:
		return f.System, true
	}
	return nil, false
}
