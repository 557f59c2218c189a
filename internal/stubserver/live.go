package stubserver

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"github.com/systembridge/connector-go/pkg/models"
)

// LiveFixtures samples the local machine and returns fixtures populated with
// real readings for the system, cpu, memory, disks and networks modules.
// Modules without a local source keep their static defaults. Individual
// sampling failures degrade to the static value rather than failing the call.
func LiveFixtures(ctx context.Context, version string) *Fixtures {
	fixtures := DefaultFixtures()
	if version != "" {
		fixtures.System.Version = version
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		fixtures.System.Hostname = info.Hostname
		fixtures.System.FQDN = info.Hostname
		fixtures.System.KernelVersion = info.KernelVersion
		fixtures.System.Platform = info.Platform
		fixtures.System.PlatformVersion = info.PlatformVersion
		fixtures.System.BootTime = int64(info.BootTime)
		fixtures.System.Uptime = int64(info.Uptime)
		fixtures.System.UUID = info.HostID
	}

	sampleCPU(ctx, fixtures)
	sampleMemory(ctx, fixtures)
	sampleDisks(ctx, fixtures)
	sampleNetworks(ctx, fixtures)

	return fixtures
}

func sampleCPU(ctx context.Context, fixtures *Fixtures) {
	record := models.CPU{}

	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		record.Count = ptr(count)
	}
	if percentages, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, true); err == nil && len(percentages) > 0 {
		var total float64
		perCPU := make([]models.PerCPU, 0, len(percentages))
		for i, usage := range percentages {
			total += usage
			usage := usage
			perCPU = append(perCPU, models.PerCPU{ID: i, Usage: &usage})
		}
		average := total / float64(len(percentages))
		record.Usage = &average
		record.PerCPU = perCPU
	}
	if frequencies, err := cpu.InfoWithContext(ctx); err == nil && len(frequencies) > 0 {
		current := frequencies[0].Mhz
		record.Frequency = &models.CPUFrequency{Current: &current}
	}

	if record.Count != nil || record.Usage != nil {
		fixtures.CPU = record
	}
}

func sampleMemory(ctx context.Context, fixtures *Fixtures) {
	record := models.Memory{}

	if virtual, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		record.Virtual = &models.MemoryVirtual{
			Total:     int64(virtual.Total),
			Available: int64(virtual.Available),
			Percent:   virtual.UsedPercent,
			Used:      int64(virtual.Used),
			Free:      int64(virtual.Free),
		}
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		record.Swap = &models.MemorySwap{
			Total:   int64(swap.Total),
			Used:    int64(swap.Used),
			Free:    int64(swap.Free),
			Percent: swap.UsedPercent,
			Sin:     int64(swap.Sin),
			Sout:    int64(swap.Sout),
		}
	}

	if record.Virtual != nil {
		fixtures.Memory = record
	}
}

func sampleDisks(ctx context.Context, fixtures *Fixtures) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil || len(partitions) == 0 {
		return
	}

	devices := make([]models.Disk, 0, len(partitions))
	for _, partition := range partitions {
		record := models.DiskPartition{
			Device:         partition.Device,
			MountPoint:     partition.Mountpoint,
			FilesystemType: partition.Fstype,
		}
		if usage, err := disk.UsageWithContext(ctx, partition.Mountpoint); err == nil {
			record.Usage = &models.DiskUsage{
				Total:   int64(usage.Total),
				Used:    int64(usage.Used),
				Free:    int64(usage.Free),
				Percent: usage.UsedPercent,
			}
		}
		devices = append(devices, models.Disk{
			Name:       partition.Device,
			Partitions: []models.DiskPartition{record},
		})
	}
	fixtures.Disks = models.Disks{Devices: devices}
}

func sampleNetworks(ctx context.Context, fixtures *Fixtures) {
	interfaces, err := net.InterfacesWithContext(ctx)
	if err != nil || len(interfaces) == 0 {
		return
	}

	record := models.Networks{}
	for _, iface := range interfaces {
		network := models.Network{
			Name:  iface.Name,
			Stats: &models.NetworkStats{MTU: iface.MTU, Flags: iface.Flags},
		}
		for _, addr := range iface.Addrs {
			network.Addresses = append(network.Addresses, models.NetworkAddress{
				Address: addr.Addr,
				Family:  "AF_INET",
			})
		}
		record.Networks = append(record.Networks, network)
	}
	if counters, err := net.IOCountersWithContext(ctx, false); err == nil && len(counters) > 0 {
		record.IOCounters = &models.NetworkIOCounters{
			BytesSent:   int64(counters[0].BytesSent),
			BytesRecv:   int64(counters[0].BytesRecv),
			PacketsSent: int64(counters[0].PacketsSent),
			PacketsRecv: int64(counters[0].PacketsRecv),
			ErrIn:       int64(counters[0].Errin),
			ErrOut:      int64(counters[0].Errout),
			DropIn:      int64(counters[0].Dropin),
			DropOut:     int64(counters[0].Dropout),
		}
	}
	fixtures.Networks = record
}
