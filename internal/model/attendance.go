package model

import "time"

// 考勤状态（存储值）
const (
	AttendanceHadir = "hadir" // 出勤
	AttendanceIzin  = "izin"  // 请假
	AttendanceSakit = "sakit" // 病假
	AttendanceAlpha = "alpha" // 缺勤
)

// AttendanceStatuses 全部合法的考勤状态
var AttendanceStatuses = []string{AttendanceHadir, AttendanceIzin, AttendanceSakit, AttendanceAlpha}

// Attendance 考勤记录，对应表 attendances
// 同一员工同一天仅允许一条（uk_attendances_employee_date）
type Attendance struct {
	BaseModel
	EmployeeID string    `gorm:"type:uuid;not null;uniqueIndex:uk_attendances_employee_date,priority:1" json:"employee_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uk_attendances_employee_date,priority:2" json:"date"`
	ClockIn    *string   `gorm:"type:varchar(5)"                                                         json:"clock_in"`
	ClockOut   *string   `gorm:"type:varchar(5)"                                                         json:"clock_out"`
	Status     string    `gorm:"type:varchar(10);not null;default:'hadir'"                               json:"status"`
	Notes      *string   `gorm:"type:text"                                                               json:"notes"`

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }

// DateString 以 YYYY-MM-DD 返回考勤日期
func (a *Attendance) DateString() string {
	return a.Date.Format("2006-01-02")
}

// attendanceAliases 英文别名到存储值的映射
var attendanceAliases = map[string]string{
	"present": AttendanceHadir,
	"leave":   AttendanceIzin,
	"sick":    AttendanceSakit,
	"absent":  AttendanceAlpha,
}

// NormalizeAttendanceStatus 将状态或其英文别名转换为存储值
func NormalizeAttendanceStatus(status string) (string, bool) {
	for _, s := range AttendanceStatuses {
		if status == s {
			return s, true
		}
	}
	s, ok := attendanceAliases[status]
	return s, ok
}
