package seed

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// span слоты с шагом domain.SlotGranularityMin от start включительно до end исключительно
func span(startH, startM, endH, endM int) []string {
	var out []string
	for m := startH*60 + startM; m < endH*60+endM; m += domain.SlotGranularityMin {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

// Типовые смены: утро 09:00-11:45, день 13:00-16:45
var (
	morning   = span(9, 0, 12, 0)
	afternoon = span(13, 0, 17, 0)
	full      = append(append([]string{}, morning...), afternoon...)
)

type entry struct {
	id         string
	name       string
	department string
	mon, tue   []string
	wed, thu   []string
	fri        []string
}

func (e entry) physician() *domain.Physician {
	return &domain.Physician{
		ID:         e.id,
		Name:       e.name,
		Department: e.department,
		Schedule: domain.NewWeekdaySchedule(map[domain.Weekday][]string{
			domain.Monday:    e.mon,
			domain.Tuesday:   e.tue,
			domain.Wednesday: e.wed,
			domain.Thursday:  e.thu,
			domain.Friday:    e.fri,
		}),
	}
}

// Врачи клиники; в выходные никто не принимает
var physicians = []entry{
	{id: "doc_cardiology_01", name: "山田 太郎", department: "循環器内科", mon: full, tue: full, wed: morning, thu: full, fri: morning},
	{id: "doc_cardiology_02", name: "佐藤 花子", department: "循環器内科", mon: afternoon, tue: morning, wed: full, fri: full},
	{id: "doc_gastro_01", name: "鈴木 一郎", department: "消化器内科", mon: full, tue: full, thu: full, fri: full},
	{id: "doc_respiratory_01", name: "高橋 美咲", department: "呼吸器内科", mon: afternoon, tue: full, wed: morning, thu: afternoon, fri: morning},
	{id: "doc_nephrology_01", name: "伊藤 健", department: "腎臓内科", mon: full, wed: full, thu: full, fri: morning},
	{id: "doc_neurology_01", name: "渡辺 直子", department: "神経内科", mon: morning, tue: full, wed: afternoon, thu: full, fri: afternoon},
	{id: "doc_ortho_01", name: "中村 大輔", department: "整形外科", mon: full, tue: full, wed: full, thu: morning, fri: full},
	{id: "doc_ortho_02", name: "小林 恵子", department: "整形外科", tue: afternoon, wed: morning, thu: full, fri: afternoon},
	{id: "doc_ophthalmology_01", name: "加藤 翔太", department: "眼科", mon: full, tue: morning, wed: full, thu: afternoon, fri: full},
	{id: "doc_oto_01", name: "吉田 優", department: "耳鼻咽喉科", mon: full, tue: full, wed: morning, thu: full, fri: afternoon},
	{id: "doc_dermatology_01", name: "松本 彩", department: "皮膚科", mon: afternoon, tue: full, wed: full, thu: morning, fri: full},
	{id: "doc_urology_01", name: "井上 誠", department: "泌尿器科", mon: full, tue: morning, wed: afternoon, thu: full, fri: full},
	{id: "doc_pediatrics_01", name: "木村 由美", department: "小児科", mon: full, tue: full, wed: full, thu: morning, fri: full},
	{id: "doc_pediatrics_02", name: "林 拓也", department: "小児科", tue: afternoon, wed: morning, thu: full, fri: afternoon},
	{id: "doc_obstetrics_01", name: "斎藤 香織", department: "産婦人科", mon: full, tue: morning, wed: full, thu: afternoon, fri: full},
	{id: "doc_radiology_01", name: "山口 聡", department: "画像診断・検査", mon: full, tue: full, wed: full, thu: full, fri: full},
	{id: "doc_lab_01", name: "松田 裕子", department: "臨床検査", mon: full, tue: full, wed: full, thu: full, fri: full},
	{id: "doc_rehab_01", name: "石川 浩二", department: "リハビリテーション科", mon: full, tue: full, wed: full, thu: full, fri: full},
}
