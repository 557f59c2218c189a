package models

import (
	"math"
	"time"
)

// The helpers snapshot a slot pointer under the aggregate's read lock before
// dereferencing it, so they are safe to call while a listener is still
// assigning slots. Decoded payloads are never mutated after assignment.

// BatteryTimeRemaining returns the wall-clock time the battery is expected to
// last until, or nil when no battery data is present.
func BatteryTimeRemaining(data *ModulesData) *time.Time {
	if data == nil {
		return nil
	}
	data.mu.RLock()
	battery := data.Battery
	data.mu.RUnlock()
	if battery == nil || battery.TimeRemaining == nil {
		return nil
	}
	t := time.Now().UTC().Add(time.Duration(*battery.TimeRemaining * float64(time.Second)))
	return &t
}

// CameraInUse reports whether any camera is in use, or nil when unknown.
func CameraInUse(data *ModulesData) *bool {
	if data == nil {
		return nil
	}
	data.mu.RLock()
	system := data.System
	data.mu.RUnlock()
	if system == nil || system.CameraUsage == nil {
		return nil
	}
	inUse := len(system.CameraUsage) > 0
	return &inUse
}

// CPUSpeed returns the current CPU clock in GHz rounded to two decimals, or
// nil when unknown.
func CPUSpeed(data *ModulesData) *float64 {
	cpu := cpuSlot(data)
	if cpu == nil || cpu.Frequency == nil || cpu.Frequency.Current == nil {
		return nil
	}
	speed := math.Round(*cpu.Frequency.Current/1000*100) / 100
	return &speed
}

func cpuSlot(data *ModulesData) *CPU {
	if data == nil {
		return nil
	}
	data.mu.RLock()
	defer data.mu.RUnlock()
	return data.CPU
}

// withPerCPU bounds-checks the per-CPU list before projecting a field.
func withPerCPU(data *ModulesData, index int, project func(PerCPU) *float64) *float64 {
	cpu := cpuSlot(data)
	if cpu == nil || index < 0 || index >= len(cpu.PerCPU) {
		return nil
	}
	return project(cpu.PerCPU[index])
}

// CPUPowerPerCPU returns the power draw of one logical core.
func CPUPowerPerCPU(data *ModulesData, index int) *float64 {
	return withPerCPU(data, index, func(c PerCPU) *float64 { return c.Power })
}

// CPUUsagePerCPU returns the usage of one logical core.
func CPUUsagePerCPU(data *ModulesData, index int) *float64 {
	return withPerCPU(data, index, func(c PerCPU) *float64 { return c.Usage })
}

// DisplayAt returns the display at index, or nil when out of range.
func DisplayAt(data *ModulesData, index int) *Display {
	if data == nil {
		return nil
	}
	data.mu.RLock()
	displays := data.Displays
	data.mu.RUnlock()
	if index < 0 || index >= len(displays) {
		return nil
	}
	return &displays[index]
}

// GPUAt returns the GPU at index, or nil when out of range.
func GPUAt(data *ModulesData, index int) *GPU {
	if data == nil {
		return nil
	}
	data.mu.RLock()
	gpus := data.GPUs
	data.mu.RUnlock()
	if index < 0 || index >= len(gpus) {
		return nil
	}
	return &gpus[index]
}
